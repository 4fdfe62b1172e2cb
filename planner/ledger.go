package planner

import (
	"errors"
	"fmt"
)

// ErrInsufficientFunds is returned by Spend when the cost exceeds what remains.
var ErrInsufficientFunds = errors.New("planner: insufficient funds")

// Ledger tracks the budget one or more planners may still commit this turn.
// It is not safe for concurrent use.
type Ledger struct {
	remaining int
	spent     int
	refunded  int
}

// NewLedger opens a ledger holding budget. A negative budget is clamped to 0.
func NewLedger(budget int) *Ledger {
	return &Ledger{remaining: max(budget, 0)}
}

// Remaining returns the uncommitted budget.
func (l *Ledger) Remaining() int { return l.remaining }

// CanAfford reports whether cost fits in the remaining budget.
func (l *Ledger) CanAfford(cost int) bool { return cost >= 0 && cost <= l.remaining }

// Spend commits cost. It fails without side effects when cost is negative or
// larger than Remaining.
func (l *Ledger) Spend(cost int) error {
	if !l.CanAfford(cost) {
		return fmt.Errorf("%w: cost %d, remaining %d", ErrInsufficientFunds, cost, l.remaining)
	}
	l.remaining -= cost
	l.spent += cost
	return nil
}

// Refund credits amount back, e.g. from a destroyed vehicle.
func (l *Ledger) Refund(amount int) {
	if amount <= 0 {
		return
	}
	l.remaining += amount
	l.refunded += amount
}

// Spent returns the total committed through Spend.
func (l *Ledger) Spent() int { return l.spent }

// Refunded returns the total credited through Refund.
func (l *Ledger) Refunded() int { return l.refunded }
