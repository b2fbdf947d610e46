package spaced_repetition

import (
	"math"
	"sort"

	"github.com/example/wordrecall/internal/clock"
)

// DefaultAccuracyWeight is the exponent weight of accuracy in ScoreGeo
const DefaultAccuracyWeight = 0.7

// ScheduleSummary is the part of a day's schedule the streak looks at
type ScheduleSummary struct {
	ScheduleDate  clock.Date
	TotalWords    int
	ReviewedCount int
}

// Completed reports whether every word scheduled for the day was reviewed
func (s ScheduleSummary) Completed() bool {
	return s.TotalWords > 0 && s.ReviewedCount == s.TotalWords
}

// CalculateStreak counts consecutive completed days walking back from today.
//
// Summaries are sorted newest first before walking, and days after today
// are ignored. An unfinished today neither counts nor breaks the streak; the
// first unfinished day before today stops the count. Dates with no schedule
// at all are not represented in the input and therefore do not break it.
func CalculateStreak(summaries []ScheduleSummary, today clock.Date) int {
	days := make([]ScheduleSummary, 0, len(summaries))
	for _, s := range summaries {
		if !s.ScheduleDate.After(today) {
			days = append(days, s)
		}
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].ScheduleDate.After(days[j].ScheduleDate)
	})

	streak := 0
	for _, day := range days {
		if day.Completed() {
			streak++
			continue
		}
		if day.ScheduleDate.Equal(today) {
			continue
		}
		break
	}
	return streak
}

// ScoreGeo combines completion and accuracy percentages into a 0-100 score
// using a weighted geometric mean, so a low value on either axis caps the
// result. Inputs are clamped to [0,100]; the weight is clamped to [0,1].
func ScoreGeo(completionPct, accuracyPct, accuracyWeight float64) int {
	c := clamp(completionPct, 0, 100) / 100
	a := clamp(accuracyPct, 0, 100) / 100
	w := clamp(accuracyWeight, 0, 1)

	return int(math.Round(100 * math.Pow(a, w) * math.Pow(c, 1-w)))
}

// Accuracy is the mean of the recorded review scores, 0 when there are none
func Accuracy(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += clamp(s, 0, 100)
	}
	return sum / float64(len(scores))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
