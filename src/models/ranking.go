package models

import (
	"cmp"
	"math"
	"slices"
)

// TopGoalsLimit is how many goals every dashboard variant shows
const TopGoalsLimit = 10

const AverageCompletedTasksLabel = "Average Completed Tasks"

// RankByCompletions orders goals by completed tasks, most first, and keeps
// at most limit of them. Equal counts keep their input order.
func RankByCompletions(goals []GoalWithCompletions, limit int) []GoalWithCompletions {
	ranked := slices.Clone(goals)
	slices.SortStableFunc(ranked, func(a, b GoalWithCompletions) int {
		return cmp.Compare(b.CompletedTasks, a.CompletedTasks)
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// TruncateAverage drops the fractional part, rounding toward zero
func TruncateAverage(avg float64) int {
	if math.IsNaN(avg) || math.IsInf(avg, 0) {
		return 0
	}
	return int(avg)
}

func AverageCompletionsStats(avg float64) []OtherStat {
	return []OtherStat{
		{Name: AverageCompletedTasksLabel, Stat: TruncateAverage(avg)},
	}
}
