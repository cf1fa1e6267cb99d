package analytics

import (
	"math"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

type EffortSummary struct {
	Scheduled      int     `json:"scheduled"`
	Completed      int     `json:"completed"`
	Unfinished     int     `json:"unfinished"`
	CompletionRate float64 `json:"completionRate"`
}

type Timing struct {
	Late     int     `json:"late"`
	Early    int     `json:"early"`
	OnTime   int     `json:"onTime"`
	LateRate float64 `json:"lateRate"`
}

type ProductiveDay struct {
	DateKey   string `json:"dateKey"`
	Completed int    `json:"completed"`
}

// Compensation is the pace needed to reach TargetRate by the end of the range.
type Compensation struct {
	TargetRate           float64 `json:"targetRate"`
	TargetCompletedTotal int     `json:"targetCompletedTotal"`
	RemainingToTarget    int     `json:"remainingToTarget"`
	RemainingDays        int     `json:"remainingDays"`
	RequiredPerDay       float64 `json:"requiredPerDay"`
}

// Behind reports whether a catch-up is both needed and still possible.
func (c Compensation) Behind() bool {
	return c.RemainingToTarget > 0 && c.RemainingDays > 0
}

type SummaryStats struct {
	ScheduledTotal  int     `json:"scheduledTotal"`
	CompletedTotal  int     `json:"completedTotal"`
	UnfinishedTotal int     `json:"unfinishedTotal"`
	CompletionRate  float64 `json:"completionRate"`

	Effort EffortSummary `json:"effort"`
	Timing Timing        `json:"timing"`

	AvgCompletedPerDay float64 `json:"avgCompletedPerDay"`

	Streak Streak `json:"streak"`

	MostProductiveDay *ProductiveDay `json:"mostProductiveDay,omitempty"`

	ByLineCompleted map[model.Line]int `json:"byLineCompleted"`
	ByTag           []TagStat          `json:"byTag"`

	Score             int     `json:"score"`
	Health            Health  `json:"health"`
	ConsistencyStdDev float64 `json:"consistencyStdDev"`

	Compensation Compensation `json:"compensation"`
}

type SummaryOptions struct {
	TargetRate float64
	TodayKey   string
}

// ComputeSummary folds a day-stats sequence into totals, rates and the
// derived score, health and catch-up figures.
func ComputeSummary(days []DayStats, opts SummaryOptions) SummaryStats {
	var s SummaryStats
	s.ByLineCompleted = map[model.Line]int{model.Line1: 0, model.Line2: 0, model.Line3: 0}

	var most *DayStats
	for i, d := range days {
		s.ScheduledTotal += d.Counts.Scheduled
		s.CompletedTotal += d.Counts.Completed
		s.Effort.Scheduled += d.Effort.Scheduled
		s.Effort.Completed += d.Effort.Completed
		s.Timing.Late += d.Counts.Late
		s.Timing.Early += d.Counts.Early
		s.Timing.OnTime += d.Counts.OnTime

		if most == nil || d.Counts.Completed > most.Counts.Completed {
			most = &days[i]
		}
		for _, t := range d.Completed {
			s.ByLineCompleted[t.Line]++
		}
	}

	s.UnfinishedTotal = s.ScheduledTotal - s.CompletedTotal
	s.CompletionRate = ratio(s.CompletedTotal, s.ScheduledTotal)
	s.Effort.Unfinished = max(0, s.Effort.Scheduled-s.Effort.Completed)
	s.Effort.CompletionRate = ratio(s.Effort.Completed, s.Effort.Scheduled)
	s.Timing.LateRate = ratio(s.Timing.Late, s.Timing.Late+s.Timing.Early+s.Timing.OnTime)
	s.AvgCompletedPerDay = ratio(s.CompletedTotal, len(days))

	s.Streak = ComputeStreaks(days, opts.TodayKey)
	s.ConsistencyStdDev = ComputeConsistencyStdDev(days)
	s.Health = ComputeHealth(s.ScheduledTotal, len(days))
	s.Score = ComputeScore(ScoreInput{
		CompletionRate:    s.CompletionRate,
		LateRate:          s.Timing.LateRate,
		CurrentStreak:     s.Streak.Current,
		ConsistencyStdDev: s.ConsistencyStdDev,
	})

	if most != nil && most.Counts.Completed > 0 {
		s.MostProductiveDay = &ProductiveDay{DateKey: most.DateKey, Completed: most.Counts.Completed}
	}

	s.ByTag = ComputeTagEffectiveness(days)

	endKey := opts.TodayKey
	if len(days) > 0 {
		endKey = days[len(days)-1].DateKey
	}
	s.Compensation = ComputeCompensation(opts.TargetRate, s.ScheduledTotal, s.CompletedTotal, opts.TodayKey, endKey)
	return s
}

// ComputeCompensation counts remaining days from todayKey through endKey
// inclusive; a today past the end leaves no days, and the whole remainder
// is then required at once.
func ComputeCompensation(targetRate float64, scheduledTotal, completedTotal int, todayKey, endKey string) Compensation {
	target := int(math.Ceil(float64(scheduledTotal) * targetRate))
	remaining := max(0, target-completedTotal)

	today := datekey.FromKey(todayKey)
	end := datekey.FromKey(endKey)
	remainingDays := 0
	if !today.After(end) {
		remainingDays = len(datekey.EachDateKey(today, end))
	}

	required := float64(remaining)
	if remainingDays != 0 {
		required = float64(remaining) / float64(remainingDays)
	}

	return Compensation{
		TargetRate:           targetRate,
		TargetCompletedTotal: target,
		RemainingToTarget:    remaining,
		RemainingDays:        remainingDays,
		RequiredPerDay:       required,
	}
}

type CompareStats struct {
	ScheduledDelta      int     `json:"scheduledDelta"`
	CompletedDelta      int     `json:"completedDelta"`
	CompletionRateDelta float64 `json:"completionRateDelta"`
	LateRateDelta       float64 `json:"lateRateDelta"`
	StreakDelta         int     `json:"streakDelta"`
}

func ComputeCompare(current, prev SummaryStats) CompareStats {
	return CompareStats{
		ScheduledDelta:      current.ScheduledTotal - prev.ScheduledTotal,
		CompletedDelta:      current.CompletedTotal - prev.CompletedTotal,
		CompletionRateDelta: current.CompletionRate - prev.CompletionRate,
		LateRateDelta:       current.Timing.LateRate - prev.Timing.LateRate,
		StreakDelta:         current.Streak.Current - prev.Streak.Current,
	}
}
