package analytics

// Stats summarises a dense daily series.
type Stats struct {
	Total      float64 `json:"total"`
	Average    float64 `json:"average"`
	Max        float64 `json:"max"`
	ActiveDays int     `json:"activeDays"`
	// Streak counts consecutive non-zero days ending on the last day of the series.
	Streak int `json:"streak"`
}

func Summarize(series []DailyTotal) Stats {
	var st Stats
	if len(series) == 0 {
		return st
	}
	for _, d := range series {
		st.Total += d.Total
		if d.Total > st.Max {
			st.Max = d.Total
		}
		if d.Total > 0 {
			st.ActiveDays++
		}
	}
	st.Average = st.Total / float64(len(series))
	for i := len(series) - 1; i >= 0 && series[i].Total > 0; i-- {
		st.Streak++
	}
	return st
}

// BarHeights scales each total against the series maximum (at least 1) to a
// height in [0, maxHeight].
func BarHeights(series []DailyTotal, maxHeight float64) []float64 {
	peak := 1.0
	for _, d := range series {
		if d.Total > peak {
			peak = d.Total
		}
	}
	out := make([]float64, len(series))
	for i, d := range series {
		out[i] = d.Total / peak * maxHeight
	}
	return out
}
