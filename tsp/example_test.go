package tsp_test

import (
	"fmt"
	"math"

	"github.com/dsetzer/codingame-fall-2024/tsp"
)

// ExampleTwoOpt removes the crossing from a bow-tie loop.
func ExampleTwoOpt() {
	xs := []float64{0, 10, 10, 0}
	ys := []float64{0, 10, 0, 10}
	dist := func(a, b int) float64 { return math.Hypot(xs[a]-xs[b], ys[a]-ys[b]) }

	res, err := tsp.TwoOpt([]int{0, 1, 2, 3, 0}, dist, tsp.DefaultOptions())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(res.Route, res.Cost, res.Stopped)
	// Output: [0 2 1 3 0] 40 converged
}
