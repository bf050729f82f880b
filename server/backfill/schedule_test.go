package backfill

import (
	"testing"
	"time"

	"github.com/rbannon32/lawscan/server/ecfrdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthEndDates(t *testing.T) {
	dates := MonthEndDates(date(2024, time.January, 15), date(2024, time.March, 10))
	require.Len(t, dates, 3)

	assert.Equal(t, date(2024, time.January, 31), dates[0])
	assert.Equal(t, date(2024, time.February, 29), dates[1])
	assert.Equal(t, date(2024, time.March, 31), dates[2])
}

func TestMonthEndDatesSingleMonth(t *testing.T) {
	dates := MonthEndDates(date(2023, time.February, 1), date(2023, time.February, 28))
	require.Len(t, dates, 1)
	assert.Equal(t, date(2023, time.February, 28), dates[0])
}

func TestMonthEndDatesInvertedRange(t *testing.T) {
	assert.Nil(t, MonthEndDates(date(2024, time.March, 1), date(2024, time.January, 1)))
}

func TestShouldSkipTitle(t *testing.T) {
	target := date(2024, time.June, 30)

	// Amended two years before the target month: nothing new to ingest.
	assert.True(t, ShouldSkipTitle(ecfrdata.TitleInfo{LatestAmendedOn: "2022-03-15"}, target))

	// Amended within the month leading up to the target: ingest.
	assert.False(t, ShouldSkipTitle(ecfrdata.TitleInfo{LatestAmendedOn: "2024-06-15"}, target))
	assert.False(t, ShouldSkipTitle(ecfrdata.TitleInfo{LatestAmendedOn: "2024-05-31"}, target))

	// Missing or malformed amendment dates never skip.
	assert.False(t, ShouldSkipTitle(ecfrdata.TitleInfo{}, target))
	assert.False(t, ShouldSkipTitle(ecfrdata.TitleInfo{LatestAmendedOn: "not a date"}, target))
}

func TestWorkersForPartCount(t *testing.T) {
	assert.Equal(t, 4, WorkersForPartCount(0))
	assert.Equal(t, 4, WorkersForPartCount(9))
	assert.Equal(t, 8, WorkersForPartCount(10))
	assert.Equal(t, 8, WorkersForPartCount(49))
	assert.Equal(t, 12, WorkersForPartCount(50))
	assert.Equal(t, 12, WorkersForPartCount(199))
	assert.Equal(t, 16, WorkersForPartCount(200))
	assert.Equal(t, 16, WorkersForPartCount(5000))
}

func TestPlanJobsCrossesTitlesAndDates(t *testing.T) {
	titles := []ecfrdata.TitleInfo{
		{Number: 1, Name: "General Provisions", LatestAmendedOn: "2024-06-01"},
		{Number: 2, Name: "Grants", LatestAmendedOn: "2024-06-01"},
	}
	dates := []time.Time{date(2024, time.May, 31), date(2024, time.June, 30)}

	jobs, skipped := PlanJobs(titles, []int{1, 2}, dates, false)
	assert.Len(t, jobs, 4)
	assert.Equal(t, 0, skipped)
}

func TestPlanJobsSmartSkipPrunesStaleDates(t *testing.T) {
	titles := []ecfrdata.TitleInfo{
		{Number: 1, Name: "General Provisions", LatestAmendedOn: "2020-01-01"},
		{Number: 2, Name: "Grants", LatestAmendedOn: "2024-06-15"},
	}
	dates := []time.Time{date(2024, time.June, 30)}

	jobs, skipped := PlanJobs(titles, []int{1, 2}, dates, true)
	require.Len(t, jobs, 1)
	assert.Equal(t, 2, jobs[0].TitleNum)
	assert.Equal(t, 1, skipped)
}

func TestPlanJobsSkipsReservedTitles(t *testing.T) {
	titles := []ecfrdata.TitleInfo{
		{Number: 35, Name: "Reserved", Reserved: true},
		{Number: 36, Name: "Parks"},
	}
	dates := []time.Time{date(2024, time.June, 30)}

	jobs, skipped := PlanJobs(titles, []int{35, 36}, dates, false)
	require.Len(t, jobs, 1)
	assert.Equal(t, 36, jobs[0].TitleNum)
	assert.Equal(t, 1, skipped)
}

func TestPlanJobsUnknownTitleGetsDefaultName(t *testing.T) {
	jobs, skipped := PlanJobs(nil, []int{7}, []time.Time{date(2024, time.June, 30)}, true)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Title 7", jobs[0].TitleName)
	assert.Equal(t, 0, skipped)
}
