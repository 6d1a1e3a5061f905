package analytics

import "math"

// Delta is the percentage change of one metric between windows. When the
// previous period had no activity and the current one does, Pct is null and
// New is set instead of reporting an undefined percentage. Both periods empty
// means a 0% delta.
type Delta struct {
	Pct *int `json:"pct"`
	New bool `json:"new,omitempty"`
}

// Comparison pairs the previous window's KPIs with per-category deltas.
type Comparison struct {
	Previous   KPIs  `json:"previous"`
	Total      Delta `json:"total"`
	Research   Delta `json:"research"`
	Conference Delta `json:"conference"`
	Workshop   Delta `json:"workshop"`
	Committee  Delta `json:"committee"`
}

// Compare computes percentage deltas between the current and previous KPIs.
func Compare(current, previous KPIs) *Comparison {
	return &Comparison{
		Previous:   previous,
		Total:      delta(current.Total, previous.Total),
		Research:   delta(current.Research, previous.Research),
		Conference: delta(current.Conference, previous.Conference),
		Workshop:   delta(current.Workshop, previous.Workshop),
		Committee:  delta(current.Committee, previous.Committee),
	}
}

func delta(current, previous int) Delta {
	if previous == 0 {
		if current == 0 {
			zero := 0
			return Delta{Pct: &zero}
		}
		return Delta{New: true}
	}
	pct := int(math.Round(float64(current-previous) / float64(previous) * 100))
	return Delta{Pct: &pct}
}
