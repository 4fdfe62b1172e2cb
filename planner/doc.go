// Package planner holds the budgeted greedy allocators: link construction
// and upgrade, teleport construction, and fleet sizing.
//
// Every planner draws on a Ledger. Whether planners share one ledger or
// each get a fresh one holding the full turn budget is the caller's choice;
// in both cases a planner never commits more than its ledger holds.
//
// Planners take arena indices from the snapshot and emit actions naming
// game ids.
package planner
