// Package stats derives hydration statistics (streaks, a 90-day adherence
// heatmap, completion rate, weekly trend and hourly intensity) from a
// subscriber's drink log. All figures come from day bucketing in a single
// configured time zone.
package stats

import (
	"math"
	"time"

	"github.com/mapleleafu/water/internal/calendar"
	"github.com/mapleleafu/water/internal/store"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	WindowDays  = 90 // heatmap length and lookback window
	TrendDays   = 7
	DefaultGoal = 2000
)

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Snapshot is the full statistics response for one subscriber and goal.
type Snapshot struct {
	Goal             int          `json:"goal"`
	TodayTotal       int          `json:"todayTotal"`
	CurrentStreak    int          `json:"currentStreak"`
	LongestStreak    int          `json:"longestStreak"`
	TotalLogs        int          `json:"totalLogs"`
	CompletionRate   int          `json:"completionRate"`
	AverageDaily     int          `json:"averageDaily"`
	TotalDaysTracked int          `json:"totalDaysTracked"`
	History          []TrendDay   `json:"history"`
	Heatmap          []HeatmapDay `json:"heatmap"`
	Hourly           []HourTotal  `json:"hourly"`
	Preferences      Preferences  `json:"preferences"`
}

// HeatmapDay is one cell of the adherence heatmap.
type HeatmapDay struct {
	Date   string `json:"date"`
	Amount int    `json:"amount"`
	Met    bool   `json:"met"`
}

// TrendDay is one bar of the weekly trend.
type TrendDay struct {
	Date   string `json:"date"`
	Day    string `json:"day"`
	Amount int    `json:"amount"`
}

// HourTotal is the amount logged in one hour of day across the window.
type HourTotal struct {
	Hour   int `json:"hour"`
	Amount int `json:"amount"`
}

// Preferences echoes the subscriber's quiet window.
type Preferences struct {
	QuietStart int `json:"quietStart"`
	QuietEnd   int `json:"quietEnd"`
}

// --------------------------------------------------------------------------
// Computation
// --------------------------------------------------------------------------

// Compute builds a snapshot from the logs of the trailing window. It does not
// fill TotalLogs or Preferences, which come from separate queries.
func Compute(logs []store.DrinkLog, goal int, now time.Time, loc *time.Location) Snapshot {
	daily := make(map[string]int)
	hourly := make([]HourTotal, 24)
	for h := range hourly {
		hourly[h].Hour = h
	}
	for _, l := range logs {
		daily[calendar.DayKey(l.Timestamp, loc)] += l.Amount
		hourly[l.Timestamp.In(loc).Hour()].Amount += l.Amount
	}

	s := Snapshot{
		Goal:       goal,
		TodayTotal: daily[calendar.DayKey(now, loc)],
		Heatmap:    make([]HeatmapDay, 0, WindowDays),
		History:    make([]TrendDay, 0, TrendDays),
		Hourly:     hourly,
	}

	var run, daysMet, trackedSum int
	for offset := WindowDays - 1; offset >= 0; offset-- {
		day := calendar.DaysBefore(now, offset, loc)
		key := calendar.DayKey(day, loc)
		amount := daily[key]
		met := amount >= goal

		if met {
			run++
			daysMet++
			s.LongestStreak = max(s.LongestStreak, run)
		} else {
			run = 0
		}
		if amount > 0 {
			s.TotalDaysTracked++
			trackedSum += amount
		}
		s.Heatmap = append(s.Heatmap, HeatmapDay{Date: key, Amount: amount, Met: met})
	}

	s.CurrentStreak = currentStreak(s.Heatmap)
	s.CompletionRate = int(math.Round(100 * float64(daysMet) / WindowDays))
	if s.TotalDaysTracked > 0 {
		s.AverageDaily = int(math.Round(float64(trackedSum) / float64(s.TotalDaysTracked)))
	}

	for offset := TrendDays - 1; offset >= 0; offset-- {
		day := calendar.DaysBefore(now, offset, loc)
		key := calendar.DayKey(day, loc)
		s.History = append(s.History, TrendDay{Date: key, Day: calendar.ShortWeekday(day), Amount: daily[key]})
	}
	return s
}

// currentStreak walks the heatmap (oldest first, today last) backwards. When
// today is met it counts today and the met days before it. When only
// yesterday is met it counts back from yesterday, leaving today out, so a
// streak survives until the day is over.
func currentStreak(heatmap []HeatmapDay) int {
	last := len(heatmap) - 1
	if last < 0 {
		return 0
	}
	switch {
	case heatmap[last].Met:
		return 1 + metRun(heatmap, last-1)
	case last > 0 && heatmap[last-1].Met:
		return metRun(heatmap, last-1)
	default:
		return 0
	}
}

// metRun counts consecutive met days ending at index from, walking back.
func metRun(heatmap []HeatmapDay, from int) int {
	n := 0
	for i := from; i >= 0 && heatmap[i].Met; i-- {
		n++
	}
	return n
}
