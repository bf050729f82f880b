package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rbannon32/lawscan/server/backfill"
	"github.com/rbannon32/lawscan/server/concurrent"
	"github.com/rbannon32/lawscan/server/dao"
	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/httpclient"
	"github.com/rbannon32/lawscan/server/normalize"
	"github.com/rbannon32/lawscan/server/parser"
	"github.com/rbannon32/lawscan/server/snapshot"
	"github.com/rbannon32/lawscan/server/walker"
)

// IngestionService runs one (title, date) snapshot end to end: structure
// discovery, per-part content fetch, normalization, metrics, hashing, and the
// batched write to storage.
type IngestionService struct {
	Client     *httpclient.ECFRClient
	SectionDAO *dao.SectionDAO
	Assembler  *snapshot.Assembler
}

// IngestResult is the per-job outcome the backfill scheduler records.
type IngestResult struct {
	TitleNum       int       `json:"titleNum"`
	VersionDate    time.Time `json:"versionDate"`
	PartsAttempted int       `json:"partsAttempted"`
	PartsFailed    int       `json:"partsFailed"`
	PartsSkipped   int       `json:"partsSkipped"`
	Sections       int       `json:"sections"`
}

type partBatch struct {
	partOrder int
	leaves    []walker.Leaf
}

// IngestTitleSnapshot ingests one title at one version date. Part fetches
// fan out across a pool sized from the title's part count; a failed part is
// logged and the rest of the title continues. Re-running the same (title,
// date) replaces the partition, so re-ingestion is idempotent.
func (s *IngestionService) IngestTitleSnapshot(
	ctx context.Context,
	titleNum int,
	titleName string,
	versionDate time.Time,
) (*IngestResult, error) {
	dateStr := versionDate.Format("2006-01-02")
	s.logInfo(fmt.Sprintf("Start - Title %d @ %s", titleNum, dateStr))

	structure, err := s.Client.GetTitleStructure(ctx, titleNum, versionDate)
	if err != nil {
		return nil, fmt.Errorf("title %d @ %s: %w", titleNum, dateStr, err)
	}

	parts := walker.EnumerateParts(structure)
	if len(parts) == 0 {
		return nil, fmt.Errorf("title %d @ %s: %w", titleNum, dateStr, data.ErrEmptyTitle)
	}

	result := &IngestResult{TitleNum: titleNum, VersionDate: versionDate}

	var active []walker.PartRef
	for _, ref := range parts {
		if ref.Reserved {
			result.PartsSkipped++
			continue
		}
		active = append(active, ref)
	}
	result.PartsAttempted = len(active)

	workers := backfill.WorkersForPartCount(len(active))
	s.logInfo(fmt.Sprintf("Title %d: %d parts, %d workers", titleNum, len(active), workers))

	pool := concurrent.NewPool[walker.PartRef, partBatch](concurrent.PoolConfig{
		MaxConcurrency: workers,
		LogPrefix:      fmt.Sprintf("Ingestion (title %d @ %s)", titleNum, dateStr),
	})

	runResult := pool.Run(ctx, active, func(jobCtx context.Context, ref walker.PartRef) (partBatch, error) {
		return s.fetchPart(jobCtx, titleNum, versionDate, ref)
	})
	result.PartsFailed = runResult.Failed

	// Flatten in part order, not completion order, so the assembled record
	// set is deterministic regardless of fetch interleaving.
	batches := make([]partBatch, 0, len(runResult.Outcomes))
	for _, outcome := range runResult.Outcomes {
		if outcome.Err == nil {
			batches = append(batches, outcome.Result)
		}
	}
	sort.Slice(batches, func(i, j int) bool {
		return batches[i].partOrder < batches[j].partOrder
	})

	var leaves []walker.Leaf
	for _, batch := range batches {
		leaves = append(leaves, batch.leaves...)
	}

	records := s.Assembler.Assemble(normalize.TitleContext{
		TitleNum:    titleNum,
		TitleName:   titleName,
		VersionDate: versionDate,
		SnapshotTs:  time.Now().UTC(),
	}, leaves)
	result.Sections = len(records)

	if err := s.SectionDAO.DeleteByTitleAndDate(ctx, titleNum, versionDate); err != nil {
		return nil, fmt.Errorf("title %d @ %s: %w", titleNum, dateStr, err)
	}
	if err := s.SectionDAO.BatchInsert(ctx, records); err != nil {
		return nil, fmt.Errorf("title %d @ %s: %w", titleNum, dateStr, err)
	}

	s.logInfo(fmt.Sprintf("Complete - Title %d @ %s: %d sections (%d parts failed, %d reserved)",
		titleNum, dateStr, result.Sections, result.PartsFailed, result.PartsSkipped))
	return result, nil
}

// fetchPart downloads and parses one part, returning its section leaves with
// the ancestor labels discovered during structure enumeration attached.
func (s *IngestionService) fetchPart(
	ctx context.Context,
	titleNum int,
	versionDate time.Time,
	ref walker.PartRef,
) (partBatch, error) {
	xmlContent, err := s.Client.GetPartXML(ctx, titleNum, ref.PartNum, versionDate)
	if err != nil {
		return partBatch{}, fmt.Errorf("part %s: %w", ref.PartNum, err)
	}

	partNode, err := parser.NewPartParser(titleNum).Parse(xmlContent, ref.PartNum)
	if err != nil {
		return partBatch{}, fmt.Errorf("part %s: %w", ref.PartNum, err)
	}

	leaves, err := walker.Sections(partNode)
	if err == data.ErrEmptyTitle {
		// A part whose rendering yields no sections is legitimate
		// (fully reserved); it contributes nothing to the snapshot.
		return partBatch{partOrder: ref.PartOrder}, nil
	}
	if err != nil {
		return partBatch{}, fmt.Errorf("part %s: %w", ref.PartNum, err)
	}

	// The part XML carries no chapter context; graft the labels the
	// structure walk resolved for this part onto each leaf.
	for i := range leaves {
		leaves[i].Ancestors.PartNum = ref.PartNum
		leaves[i].Ancestors.PartLabel = ref.PartLabel
		leaves[i].Ancestors.PartOrder = ref.PartOrder
		leaves[i].Ancestors.ChapterLabel = ref.ChapterLabel
		leaves[i].Ancestors.SubchapterLabel = ref.SubchapterLabel
	}

	return partBatch{partOrder: ref.PartOrder, leaves: leaves}, nil
}

func (s *IngestionService) logInfo(message string) {
	log.Info(fmt.Sprintf("Ingestion Process: %v", message))
}
