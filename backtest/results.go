package backtest

import "math"

// Summary aggregates episode results. Return and win rate only count
// episodes that produced statistics.
type Summary struct {
	Episodes    int
	MeanReward  float64
	StdReward   float64
	MeanReturn  float64
	StdReturn   float64
	MeanWinRate float64
	StdWinRate  float64
}

func Summarize(results []EpisodeResult) Summary {
	var rewards, returns, winRates []float64
	for _, r := range results {
		rewards = append(rewards, r.TotalReward)
		if r.HasStats {
			returns = append(returns, r.Stats.TotalReturn)
			winRates = append(winRates, r.Stats.WinRate)
		}
	}

	s := Summary{Episodes: len(results)}
	s.MeanReward, s.StdReward = meanStd(rewards)
	s.MeanReturn, s.StdReturn = meanStd(returns)
	s.MeanWinRate, s.StdWinRate = meanStd(winRates)
	return s
}

// meanStd returns the mean and population standard deviation.
func meanStd(xs []float64) (mean, std float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	var v float64
	for _, x := range xs {
		d := x - mean
		v += d * d
	}
	return mean, math.Sqrt(v / float64(len(xs)))
}
