package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dsetzer/codingame-fall-2024/action"
	"github.com/dsetzer/codingame-fall-2024/network"
	"github.com/dsetzer/codingame-fall-2024/route"
	"github.com/dsetzer/codingame-fall-2024/tsp"
)

// ErrBadConfig is returned by New for an unusable Config.
var ErrBadConfig = errors.New("engine: invalid config")

// BudgetMode selects how planners share the turn budget.
type BudgetMode int

const (
	// BudgetIndependent gives every planner a fresh ledger holding the full
	// snapshot budget, so stages may jointly propose more than is available.
	BudgetIndependent BudgetMode = iota

	// BudgetShared threads one ledger through links, teleports and fleet.
	BudgetShared
)

// String returns the config spelling of m.
func (m BudgetMode) String() string {
	switch m {
	case BudgetShared:
		return "shared"
	default:
		return "independent"
	}
}

// ParseBudgetMode accepts "independent" (or "") and "shared".
func ParseBudgetMode(s string) (BudgetMode, error) {
	switch strings.ToLower(s) {
	case "", "independent":
		return BudgetIndependent, nil
	case "shared":
		return BudgetShared, nil
	default:
		return 0, fmt.Errorf("%w: budget mode %q", ErrBadConfig, s)
	}
}

// Config holds everything a turn's decision depends on.
type Config struct {
	Rules      network.Rules
	BudgetMode BudgetMode

	// MaxLinkCandidates caps link candidates after sorting; 0 means no cap.
	MaxLinkCandidates int
	// MaxLinkPairs caps how many station pairs link enumeration examines
	// per turn; 0 means every pair.
	MaxLinkPairs int

	TwoOpt tsp.Options
}

// DefaultConfig returns the standard rules with independent budgets and
// unbounded search.
func DefaultConfig() Config {
	return Config{
		Rules:      network.DefaultRules(),
		BudgetMode: BudgetIndependent,
		TwoOpt:     tsp.DefaultOptions(),
	}
}

// Stage names a planning stage in fixed execution order.
type Stage string

const (
	StageLinks     Stage = "links"
	StageTeleports Stage = "teleports"
	StageFleet     Stage = "fleet"
	StageRoutes    Stage = "routes"
)

// StageReport summarises one stage. Budget is what the stage's ledger held
// when it started; Committed is spend minus refunds.
type StageReport struct {
	Stage     Stage `json:"stage"`
	Budget    int   `json:"budget"`
	Committed int   `json:"committed"`
	Actions   int   `json:"actions"`
}

// Counts are snapshot sizes.
type Counts struct {
	Stations  int `json:"stations"`
	Links     int `json:"links"`
	Teleports int `json:"teleports"`
	Vehicles  int `json:"vehicles"`
}

// Unreachable is a demand edge whose delivery station cannot be reached
// from its supply station over links and teleports.
// Fields are station ids.
type Unreachable struct {
	Supply   int `json:"supply"`
	Delivery int `json:"delivery"`
	Type     int `json:"type"`
}

// Decision is the outcome of one turn.
type Decision struct {
	Budget      int                  `json:"budget"`
	Counts      Counts               `json:"counts"`
	Actions     []action.Action      `json:"actions"`
	Stages      []StageReport        `json:"stages"`
	Issues      []network.Issue      `json:"issues,omitempty"`
	Demand      network.DemandReport `json:"demand"`
	Unreachable []Unreachable        `json:"unreachable,omitempty"`
	Routes      []route.Outcome      `json:"-"`
	Truncated   bool                 `json:"truncated"`
	Duration    time.Duration        `json:"duration"`
}

// Line renders the protocol output for the turn.
func (d Decision) Line() string { return action.Line(d.Actions) }

// Committed returns the net cost of all actions.
func (d Decision) Committed() int { return action.Cost(d.Actions) }

// Recorder receives per-turn measurements; observability.DecisionCollector
// implements it.
type Recorder interface {
	ObserveTurn(d time.Duration)
	AddActions(kind string, n int)
	AddCommitted(stage string, amount int)
	SetEntityCounts(stations, links, teleports, vehicles int)
	AddIssues(kind string, n int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveTurn(time.Duration)          {}
func (noopRecorder) AddActions(string, int)             {}
func (noopRecorder) AddCommitted(string, int)           {}
func (noopRecorder) SetEntityCounts(int, int, int, int) {}
func (noopRecorder) AddIssues(string, int)              {}
