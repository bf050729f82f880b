package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rbannon32/lawscan/server/dao"
	"github.com/rbannon32/lawscan/server/rollup"
)

// RollupService regenerates the part and agency summaries for a version
// date. Rollups are always rebuilt in full for the date; the section set
// they reduce is immutable once assembled.
type RollupService struct {
	SectionDAO *dao.SectionDAO
	SummaryDAO *dao.SummaryDAO
}

// RollupResult reports what one regeneration produced.
type RollupResult struct {
	VersionDate time.Time `json:"versionDate"`
	Sections    int       `json:"sections"`
	Parts       int       `json:"parts"`
	Agencies    int       `json:"agencies"`
}

// ComputeRollups reduces every section record stored for a date into part
// and agency summaries and replaces both summary sets.
func (s *RollupService) ComputeRollups(
	ctx context.Context,
	versionDate time.Time,
) (*RollupResult, error) {
	dateStr := versionDate.Format("2006-01-02")
	s.logInfo(fmt.Sprintf("Start - Rollups for %s", dateStr))

	records, err := s.SectionDAO.FindByDate(ctx, versionDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load sections for %s: %w", dateStr, err)
	}

	parts := rollup.PartSummaries(records)
	agencies := rollup.AgencySummaries(parts)

	if err := s.SummaryDAO.ReplacePartSummaries(ctx, versionDate, parts); err != nil {
		return nil, fmt.Errorf("failed to replace part summaries for %s: %w", dateStr, err)
	}
	if err := s.SummaryDAO.ReplaceAgencySummaries(ctx, versionDate, agencies); err != nil {
		return nil, fmt.Errorf("failed to replace agency summaries for %s: %w", dateStr, err)
	}

	result := &RollupResult{
		VersionDate: versionDate,
		Sections:    len(records),
		Parts:       len(parts),
		Agencies:    len(agencies),
	}

	s.logInfo(fmt.Sprintf("Complete - %s: %d sections into %d parts, %d agencies",
		dateStr, result.Sections, result.Parts, result.Agencies))
	return result, nil
}

func (s *RollupService) logInfo(message string) {
	log.Info(fmt.Sprintf("Rollup Process: %v", message))
}
