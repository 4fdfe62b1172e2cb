package tsp

import "math"

const roundScale = 1e9

// RouteCost sums dist over consecutive stops of route.
//
// Complexity: O(len(route)).
func RouteCost(route []int, dist DistanceFunc) float64 {
	var sum float64
	for k := 0; k+1 < len(route); k++ {
		sum += dist(route[k], route[k+1])
	}
	return round1e9(sum)
}

// round1e9 returns x rounded to 1e-9 absolute precision so that costs
// compare stably across platforms.
func round1e9(x float64) float64 {
	return math.Round(x*roundScale) / roundScale
}
