package backfill

import (
	"fmt"
	"time"

	"github.com/rbannon32/lawscan/server/ecfrdata"
)

// Job is one (title, date) ingestion unit. Jobs write disjoint partitions,
// so no ordering between them is required.
type Job struct {
	TitleNum    int
	TitleName   string
	VersionDate time.Time
}

// MonthEndDates collapses a calendar range into one representative snapshot
// date per month: the last day of each month touched by the range. Walking
// every calendar day would be O(days); the source only changes on amendment,
// so month grain loses nothing the smart-skip check does not recover.
func MonthEndDates(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}

	var dates []time.Time
	current := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	for !current.After(last) {
		nextMonth := current.AddDate(0, 1, 0)
		dates = append(dates, nextMonth.AddDate(0, 0, -1))
		current = nextMonth
	}

	return dates
}

// ShouldSkipTitle reports whether a title cannot have changed by the target
// snapshot date: its latest amendment predates the target by more than one
// month, so the month holding the target saw no substantive change. Missing
// or unparseable amendment dates never skip.
func ShouldSkipTitle(title ecfrdata.TitleInfo, targetDate time.Time) bool {
	if title.LatestAmendedOn == "" {
		return false
	}

	amended, err := time.Parse("2006-01-02", title.LatestAmendedOn)
	if err != nil {
		return false
	}

	return amended.Before(targetDate.AddDate(0, -1, 0))
}

// WorkersForPartCount picks a per-title worker count from its estimated part
// count. Larger titles get more workers, up to a hard ceiling that respects
// the upstream rate limit.
func WorkersForPartCount(partCount int) int {
	const ceiling = 20

	var workers int
	switch {
	case partCount < 10:
		workers = 4
	case partCount < 50:
		workers = 8
	case partCount < 200:
		workers = 12
	default:
		workers = 16
	}

	if workers > ceiling {
		return ceiling
	}
	return workers
}

// PlanJobs derives the job set for a run: every requested, non-reserved
// title crossed with every snapshot date, minus titles the amendment signal
// proves unchanged for a date. Returns the jobs plus the skip count for the
// run summary.
func PlanJobs(
	titles []ecfrdata.TitleInfo,
	requested []int,
	dates []time.Time,
	smartSkip bool,
) (jobs []Job, skipped int) {
	byNumber := make(map[int]ecfrdata.TitleInfo, len(titles))
	for _, t := range titles {
		byNumber[t.Number] = t
	}

	for _, date := range dates {
		for _, num := range requested {
			title, known := byNumber[num]
			if known && title.Reserved {
				skipped++
				continue
			}
			if smartSkip && known && ShouldSkipTitle(title, date) {
				skipped++
				continue
			}

			name := title.Name
			if name == "" {
				name = defaultTitleName(num)
			}
			jobs = append(jobs, Job{TitleNum: num, TitleName: name, VersionDate: date})
		}
	}

	return jobs, skipped
}

func defaultTitleName(num int) string {
	return fmt.Sprintf("Title %d", num)
}
