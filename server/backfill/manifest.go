package backfill

import (
	"fmt"
	"time"
)

// Job statuses recorded in the run manifest.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
	StatusTimeout = "timeout"
)

// ManifestEntry records the terminal state of one job.
type ManifestEntry struct {
	TitleNum    int       `json:"titleNum"`
	VersionDate string    `json:"versionDate"` // YYYY-MM-DD
	Status      string    `json:"status"`
	Sections    int       `json:"sections"`
	Parts       int       `json:"parts"`
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

// Manifest is the externalized progress state of one backfill run. It is
// persisted after every job so an interrupted run can resume by re-deriving
// the remaining job set instead of replaying completed work. Keeping it as
// an explicit value, not in-process state, is what makes multi-process
// execution possible.
type Manifest struct {
	RunId     string          `json:"runId"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Titles    []int           `json:"titles"`
	StartedAt time.Time       `json:"startedAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Entries   []ManifestEntry `json:"entries"`
}

func jobKey(titleNum int, date string) string {
	return fmt.Sprintf("%d|%s", titleNum, date)
}

// Record appends or replaces the entry for one job.
func (m *Manifest) Record(entry ManifestEntry) {
	m.UpdatedAt = time.Now().UTC()
	for i, existing := range m.Entries {
		if existing.TitleNum == entry.TitleNum && existing.VersionDate == entry.VersionDate {
			m.Entries[i] = entry
			return
		}
	}
	m.Entries = append(m.Entries, entry)
}

// Remaining filters a planned job set down to the jobs this manifest has not
// already completed. Failed and timed-out jobs are re-derived; re-running
// them is the caller's retry mechanism.
func (m *Manifest) Remaining(jobs []Job) []Job {
	done := make(map[string]bool, len(m.Entries))
	for _, entry := range m.Entries {
		if entry.Status == StatusSuccess || entry.Status == StatusSkipped {
			done[jobKey(entry.TitleNum, entry.VersionDate)] = true
		}
	}

	var remaining []Job
	for _, job := range jobs {
		if !done[jobKey(job.TitleNum, job.VersionDate.Format("2006-01-02"))] {
			remaining = append(remaining, job)
		}
	}
	return remaining
}

// Summary is the operator-facing tally of one run. The scheduler always
// reports these counts; a bare error never reaches the operator without
// this context.
type Summary struct {
	RunId     string `json:"runId"`
	Planned   int    `json:"planned"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	TimedOut  int    `json:"timedOut"`
	Skipped   int    `json:"skipped"`
	Sections  int    `json:"sections"`
}

// Summarize tallies the manifest entries plus the planner's skip count.
func (m *Manifest) Summarize(planned, plannerSkips int) Summary {
	s := Summary{RunId: m.RunId, Planned: planned, Skipped: plannerSkips}
	for _, entry := range m.Entries {
		switch entry.Status {
		case StatusSuccess:
			s.Succeeded++
			s.Sections += entry.Sections
		case StatusFailed:
			s.Failed++
		case StatusTimeout:
			s.TimedOut++
		case StatusSkipped:
			s.Skipped++
		}
	}
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("run %s: %d planned, %d succeeded, %d failed, %d timed out, %d skipped, %d sections",
		s.RunId, s.Planned, s.Succeeded, s.Failed, s.TimedOut, s.Skipped, s.Sections)
}
