package network

import "sort"

// TypeDemand summarises supply and delivery capacity for one passenger type.
type TypeDemand struct {
	Type          int  `json:"type"`
	Pending       int  `json:"pending"`
	DeliveryCount int  `json:"delivery_count"`
	Unserved      bool `json:"unserved"`
	Bottleneck    bool `json:"bottleneck"`
}

// DemandReport is the per-turn balance between waiting passengers and
// delivery stations, ordered by passenger type.
type DemandReport struct {
	TotalPending int          `json:"total_pending"`
	Types        []TypeDemand `json:"types"`
}

// Flagged returns the entries marked Unserved or Bottleneck.
func (r DemandReport) Flagged() []TypeDemand {
	var out []TypeDemand
	for _, td := range r.Types {
		if td.Unserved || td.Bottleneck {
			out = append(out, td)
		}
	}
	return out
}

// AnalyzeDemand aggregates pending passengers by type across supply stations
// and compares them with the number of delivery stations accepting each type.
// A type is Unserved when no delivery station accepts it, and a Bottleneck
// when pending > deliveryCount × PodCapacity.
//
// The report is diagnostic only; no planner reads it.
func AnalyzeDemand(s *Snapshot) DemandReport {
	pending := make(map[int]int)
	modules := make(map[int]int)
	var report DemandReport

	for i := range s.Stations {
		st := &s.Stations[i]
		switch st.Kind {
		case KindSupply:
			for typ, n := range st.Pending {
				pending[typ] += n
				report.TotalPending += n
			}
		case KindDelivery:
			modules[st.Accepts]++
		}
	}

	for typ, n := range pending {
		count := modules[typ]
		report.Types = append(report.Types, TypeDemand{
			Type:          typ,
			Pending:       n,
			DeliveryCount: count,
			Unserved:      count == 0,
			Bottleneck:    count > 0 && n > count*s.Rules.PodCapacity,
		})
	}
	sort.Slice(report.Types, func(a, b int) bool { return report.Types[a].Type < report.Types[b].Type })

	return report
}
