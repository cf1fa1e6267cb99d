package analytics

import (
	"math"
	"strconv"
)

type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreaks measures runs of days with at least one completion.
// Current walks backward from todayKey, or from the last day when todayKey
// is outside the sequence.
func ComputeStreaks(days []DayStats, todayKey string) Streak {
	var s Streak

	run := 0
	for _, d := range days {
		if d.Counts.Completed > 0 {
			run++
			s.Longest = max(s.Longest, run)
		} else {
			run = 0
		}
	}

	start := len(days) - 1
	for i, d := range days {
		if d.DateKey == todayKey {
			start = i
			break
		}
	}
	for i := start; i >= 0; i-- {
		if days[i].Counts.Completed == 0 {
			break
		}
		s.Current++
	}
	return s
}

// ComputeConsistencyStdDev is the population standard deviation of the
// per-day completed counts. Fewer than two days yield 0.
func ComputeConsistencyStdDev(days []DayStats) float64 {
	n := len(days)
	if n <= 1 {
		return 0
	}

	sum := 0.0
	for _, d := range days {
		sum += float64(d.Counts.Completed)
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, d := range days {
		diff := float64(d.Counts.Completed) - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(n))
}

type Health string

const (
	HealthLight      Health = "light"
	HealthBalanced   Health = "balanced"
	HealthHeavy      Health = "heavy"
	HealthOverloaded Health = "overloaded"
)

// ComputeHealth classifies the average scheduled load per day.
func ComputeHealth(scheduledTotal, days int) Health {
	perDay := 0.0
	if days != 0 {
		perDay = float64(scheduledTotal) / float64(days)
	}
	switch {
	case perDay <= 4:
		return HealthLight
	case perDay <= 7:
		return HealthBalanced
	case perDay <= 10:
		return HealthHeavy
	default:
		return HealthOverloaded
	}
}

type ScoreInput struct {
	CompletionRate    float64
	LateRate          float64
	CurrentStreak     int
	ConsistencyStdDev float64
}

// ComputeScore is the 0..100 productivity score: completion carries 70
// points, the current streak adds up to 20, lateness removes up to 20 and
// day-to-day volatility removes up to 15.
func ComputeScore(in ScoreInput) int {
	base := in.CompletionRate * 70
	streakBoost := math.Min(20, float64(in.CurrentStreak)*2.5)
	latePenalty := in.LateRate * 20
	consistencyPenalty := math.Min(15, in.ConsistencyStdDev*2)

	score := roundHalfUp(base + streakBoost - latePenalty - consistencyPenalty)
	return int(math.Max(0, math.Min(100, score)))
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
// Values just below a half round down.
func roundHalfUp(x float64) float64 {
	f := math.Floor(x)
	if x-f >= 0.5 {
		return f + 1
	}
	return f
}

// ToFixed formats x with the given number of decimals, rounding halves up
// instead of to even.
func ToFixed(x float64, digits int) string {
	p := math.Pow(10, float64(digits))
	return strconv.FormatFloat(roundHalfUp(x*p)/p, 'f', digits, 64)
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
