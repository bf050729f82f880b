package backfill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func job(titleNum int, d time.Time) Job {
	return Job{TitleNum: titleNum, VersionDate: d}
}

func TestManifestRecordUpserts(t *testing.T) {
	m := &Manifest{RunId: "run-1"}

	m.Record(ManifestEntry{TitleNum: 1, VersionDate: "2024-06-30", Status: StatusFailed})
	m.Record(ManifestEntry{TitleNum: 2, VersionDate: "2024-06-30", Status: StatusSuccess})
	require.Len(t, m.Entries, 2)

	// Re-recording the same job replaces its entry, it does not append.
	m.Record(ManifestEntry{TitleNum: 1, VersionDate: "2024-06-30", Status: StatusSuccess, Sections: 40})
	require.Len(t, m.Entries, 2)
	assert.Equal(t, StatusSuccess, m.Entries[0].Status)
	assert.Equal(t, 40, m.Entries[0].Sections)
	assert.False(t, m.UpdatedAt.IsZero())
}

func TestManifestRemaining(t *testing.T) {
	d := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	jobs := []Job{job(1, d), job(2, d), job(3, d), job(4, d)}

	m := &Manifest{RunId: "run-1"}
	m.Record(ManifestEntry{TitleNum: 1, VersionDate: "2024-06-30", Status: StatusSuccess})
	m.Record(ManifestEntry{TitleNum: 2, VersionDate: "2024-06-30", Status: StatusSkipped})
	m.Record(ManifestEntry{TitleNum: 3, VersionDate: "2024-06-30", Status: StatusFailed})

	remaining := m.Remaining(jobs)
	require.Len(t, remaining, 2)

	// Failed jobs are re-derived; succeeded and skipped are done.
	assert.Equal(t, 3, remaining[0].TitleNum)
	assert.Equal(t, 4, remaining[1].TitleNum)
}

func TestManifestRemainingDifferentDates(t *testing.T) {
	june := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	july := time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC)

	m := &Manifest{RunId: "run-1"}
	m.Record(ManifestEntry{TitleNum: 1, VersionDate: "2024-06-30", Status: StatusSuccess})

	remaining := m.Remaining([]Job{job(1, june), job(1, july)})
	require.Len(t, remaining, 1)
	assert.Equal(t, july, remaining[0].VersionDate)
}

func TestSummarize(t *testing.T) {
	m := &Manifest{RunId: "run-1"}
	m.Record(ManifestEntry{TitleNum: 1, VersionDate: "2024-06-30", Status: StatusSuccess, Sections: 100})
	m.Record(ManifestEntry{TitleNum: 2, VersionDate: "2024-06-30", Status: StatusSuccess, Sections: 50})
	m.Record(ManifestEntry{TitleNum: 3, VersionDate: "2024-06-30", Status: StatusFailed})
	m.Record(ManifestEntry{TitleNum: 4, VersionDate: "2024-06-30", Status: StatusTimeout})
	m.Record(ManifestEntry{TitleNum: 5, VersionDate: "2024-06-30", Status: StatusSkipped})

	s := m.Summarize(10, 3)
	assert.Equal(t, "run-1", s.RunId)
	assert.Equal(t, 10, s.Planned)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.TimedOut)
	assert.Equal(t, 4, s.Skipped)
	assert.Equal(t, 150, s.Sections)

	assert.Contains(t, s.String(), "run-1")
	assert.Contains(t, s.String(), "2 succeeded")
}
