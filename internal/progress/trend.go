package progress

const (
	trendMinPerformances = 3
	trendRecentWindow    = 3
	trendThreshold       = 0.05
)

// AnalyzeTrend derives a progression label from performances ordered by
// date ascending. Only weight drives the trend: the mean of the last three
// performances with a weight > 0 is compared against the mean of all earlier ones.
func AnalyzeTrend(performances []Performance) Trend {
	if len(performances) < trendMinPerformances {
		return TrendNew
	}

	weights := make([]float64, 0, len(performances))
	for _, p := range performances {
		if p.Weight != nil && *p.Weight > 0 {
			weights = append(weights, *p.Weight)
		}
	}
	if len(weights) < trendMinPerformances {
		return TrendStable
	}

	split := len(weights) - trendRecentWindow
	older, recent := weights[:split], weights[split:]
	if len(older) == 0 || len(recent) == 0 {
		return TrendStable
	}

	olderAvg, recentAvg := mean(older), mean(recent)

	improvement := (recentAvg - olderAvg) / olderAvg
	switch {
	case improvement > trendThreshold:
		return TrendImproving
	case improvement < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
