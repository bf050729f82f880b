package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rbannon32/lawscan/server/dao"
	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/diff"
)

// ChangeTrackingService classifies citations between two snapshot dates and
// persists the result as a computed value for the query surface.
type ChangeTrackingService struct {
	Engine           *diff.Engine
	ComputedValueDAO *dao.ComputedValueDAO
}

// ChangeSummary is the persisted diff for one title between two dates.
// UNCHANGED citations are counted but their entries are not stored.
type ChangeSummary struct {
	TitleNum  int                `json:"titleNum"`
	FromDate  time.Time          `json:"fromDate"`
	ToDate    time.Time          `json:"toDate"`
	Added     int                `json:"added"`
	Removed   int                `json:"removed"`
	Modified  int                `json:"modified"`
	Unchanged int                `json:"unchanged"`
	Entries   []data.ChangeEntry `json:"entries"`
}

// TotalChanged is the summary's sort key for ranking titles by churn.
func (c ChangeSummary) TotalChanged() int {
	return c.Added + c.Removed + c.Modified
}

// ComputeChanges diffs the stored snapshots of the given titles between two
// dates and persists one summary per title. A title that fails to diff is
// logged and skipped; the rest continue.
func (s *ChangeTrackingService) ComputeChanges(
	ctx context.Context,
	titleNums []int,
	fromDate time.Time,
	toDate time.Time,
) ([]ChangeSummary, error) {
	s.logInfo(fmt.Sprintf("Computing changes from %s to %s for %d titles",
		fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"), len(titleNums)))

	var summaries []ChangeSummary
	for _, titleNum := range titleNums {
		summary, err := s.computeTitleChanges(ctx, titleNum, fromDate, toDate)
		if err != nil {
			s.logInfo(fmt.Sprintf("Failed to compute changes for title %d: %v", titleNum, err))
			continue
		}
		summaries = append(summaries, *summary)
		s.logInfo(fmt.Sprintf("Title %d: %d added, %d removed, %d modified",
			titleNum, summary.Added, summary.Removed, summary.Modified))
	}

	return summaries, nil
}

func (s *ChangeTrackingService) computeTitleChanges(
	ctx context.Context,
	titleNum int,
	fromDate time.Time,
	toDate time.Time,
) (*ChangeSummary, error) {
	entries, err := s.Engine.Changes(ctx, titleNum, fromDate, toDate, true)
	if err != nil {
		return nil, err
	}

	summary := &ChangeSummary{TitleNum: titleNum, FromDate: fromDate, ToDate: toDate}
	for _, entry := range entries {
		switch entry.ChangeType {
		case data.ChangeAdded:
			summary.Added++
		case data.ChangeRemoved:
			summary.Removed++
		case data.ChangeModified:
			summary.Modified++
		case data.ChangeUnchanged:
			summary.Unchanged++
			continue
		}
		summary.Entries = append(summary.Entries, entry)
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal change summary: %w", err)
	}

	cv := &data.ComputedValue{
		Key:  data.ComputedValueKeyChangeSummary(titleNum, fromDate, toDate),
		Data: payload,
	}
	if err := s.ComputedValueDAO.Insert(ctx, cv); err != nil {
		return nil, fmt.Errorf("failed to store change summary: %w", err)
	}

	return summary, nil
}

// GetChangeSummary retrieves the persisted summary for one title and date
// pair.
func (s *ChangeTrackingService) GetChangeSummary(
	ctx context.Context,
	titleNum int,
	fromDate time.Time,
	toDate time.Time,
) (*ChangeSummary, error) {
	key := data.ComputedValueKeyChangeSummary(titleNum, fromDate, toDate)

	cv, err := s.ComputedValueDAO.FindByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find change summary: %w", err)
	}
	if cv == nil {
		return nil, fmt.Errorf("no change summary for title %d between %s and %s",
			titleNum, fromDate.Format("2006-01-02"), toDate.Format("2006-01-02"))
	}

	var summary ChangeSummary
	if err := json.Unmarshal(cv.Data, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal change summary: %w", err)
	}

	return &summary, nil
}

// GetTopChangingTitles ranks persisted summaries by total churn and returns
// the top N.
func (s *ChangeTrackingService) GetTopChangingTitles(
	ctx context.Context,
	titleNums []int,
	fromDate time.Time,
	toDate time.Time,
	limit int,
) ([]ChangeSummary, error) {
	var summaries []ChangeSummary
	for _, titleNum := range titleNums {
		summary, err := s.GetChangeSummary(ctx, titleNum, fromDate, toDate)
		if err != nil {
			continue
		}
		summaries = append(summaries, *summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].TotalChanged() > summaries[j].TotalChanged()
	})

	if limit > 0 && limit < len(summaries) {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// GenerateChangeReport renders a plain-text report over the persisted
// summaries for the given titles.
func (s *ChangeTrackingService) GenerateChangeReport(
	ctx context.Context,
	titleNums []int,
	fromDate time.Time,
	toDate time.Time,
) (string, error) {
	var report strings.Builder
	report.WriteString(fmt.Sprintf("CFR Section Change Report: %s to %s\n\n",
		fromDate.Format("2006-01-02"), toDate.Format("2006-01-02")))

	var totalAdded, totalRemoved, totalModified int

	for _, titleNum := range titleNums {
		summary, err := s.GetChangeSummary(ctx, titleNum, fromDate, toDate)
		if err != nil {
			report.WriteString(fmt.Sprintf("Title %d: no computed summary\n\n", titleNum))
			continue
		}

		totalAdded += summary.Added
		totalRemoved += summary.Removed
		totalModified += summary.Modified

		report.WriteString(fmt.Sprintf("Title %d:\n", titleNum))
		report.WriteString(fmt.Sprintf("  Added: %d, Removed: %d, Modified: %d, Unchanged: %d\n\n",
			summary.Added, summary.Removed, summary.Modified, summary.Unchanged))
	}

	report.WriteString("Total across requested titles:\n")
	report.WriteString(fmt.Sprintf("  Added: %d, Removed: %d, Modified: %d\n",
		totalAdded, totalRemoved, totalModified))

	return report.String(), nil
}

func (s *ChangeTrackingService) logInfo(message string) {
	log.Info(fmt.Sprintf("Change Tracking Process: %v", message))
}
