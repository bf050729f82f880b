package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/rbannon32/lawscan/server/backfill"
	"github.com/rbannon32/lawscan/server/concurrent"
	"github.com/rbannon32/lawscan/server/dao"
	"github.com/rbannon32/lawscan/server/data"
	"github.com/rbannon32/lawscan/server/httpclient"
)

// BackfillService drives a multi-title, multi-date ingestion run. It plans
// the job set, fans the jobs out across a bounded pool, and persists a run
// manifest after every job so an interrupted run can resume.
type BackfillService struct {
	Client           *httpclient.ECFRClient
	Ingestion        *IngestionService
	ComputedValueDAO *dao.ComputedValueDAO
}

// BackfillOptions configures one run.
type BackfillOptions struct {
	StartDate  time.Time
	EndDate    time.Time
	TitleNums  []int // empty means every non-reserved title
	Workers    int   // concurrent titles; <=0 picks a default
	JobTimeout time.Duration
	SmartSkip  bool
	ResumeFrom string // run id of a prior manifest to resume
	DryRun     bool
}

const (
	defaultTitleWorkers = 4
	defaultJobTimeout   = 30 * time.Minute
)

// Run executes a backfill over month-end snapshot dates in the configured
// range. Only a plan that yields zero titles is fatal; individual job
// failures are recorded in the manifest and the run continues.
func (s *BackfillService) Run(
	ctx context.Context,
	opts BackfillOptions,
) (*backfill.Summary, error) {
	titles, err := s.Client.ListTitles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}

	requested := opts.TitleNums
	if len(requested) == 0 {
		for _, t := range titles {
			if !t.Reserved {
				requested = append(requested, t.Number)
			}
		}
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("no titles to backfill")
	}

	dates := backfill.MonthEndDates(opts.StartDate, opts.EndDate)
	if len(dates) == 0 {
		return nil, fmt.Errorf("no snapshot dates between %s and %s",
			opts.StartDate.Format("2006-01-02"), opts.EndDate.Format("2006-01-02"))
	}

	jobs, plannerSkips := backfill.PlanJobs(titles, requested, dates, opts.SmartSkip)
	planned := len(jobs)

	manifest, err := s.loadOrCreateManifest(ctx, opts, requested)
	if err != nil {
		return nil, err
	}

	if opts.ResumeFrom != "" {
		before := len(jobs)
		jobs = manifest.Remaining(jobs)
		s.logInfo(fmt.Sprintf("Resuming run %s: %d of %d jobs remain",
			manifest.RunId, len(jobs), before))
	}

	s.logInfo(fmt.Sprintf("Run %s: %d titles x %d dates -> %d jobs (%d planner skips)",
		manifest.RunId, len(requested), len(dates), len(jobs), plannerSkips))

	if opts.DryRun {
		for _, job := range jobs {
			s.logInfo(fmt.Sprintf("Would ingest title %d @ %s",
				job.TitleNum, job.VersionDate.Format("2006-01-02")))
		}
		summary := manifest.Summarize(planned, plannerSkips)
		return &summary, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultTitleWorkers
	}
	jobTimeout := opts.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}

	pool := concurrent.NewPool[backfill.Job, *IngestResult](concurrent.PoolConfig{
		MaxConcurrency: workers,
		JobTimeout:     jobTimeout,
		LogPrefix:      fmt.Sprintf("Backfill %s", manifest.RunId),
	})

	var mu sync.Mutex
	pool.Run(ctx, jobs, func(jobCtx context.Context, job backfill.Job) (*IngestResult, error) {
		result, err := s.Ingestion.IngestTitleSnapshot(jobCtx, job.TitleNum, job.TitleName, job.VersionDate)

		entry := backfill.ManifestEntry{
			TitleNum:    job.TitleNum,
			VersionDate: job.VersionDate.Format("2006-01-02"),
			CompletedAt: time.Now().UTC(),
		}
		switch {
		case err == nil:
			entry.Status = backfill.StatusSuccess
			entry.Sections = result.Sections
			entry.Parts = result.PartsAttempted
		case errors.Is(err, data.ErrEmptyTitle):
			// An empty rendering for the date is not a failure; the
			// title simply has nothing to store yet.
			entry.Status = backfill.StatusSkipped
			entry.Error = err.Error()
			err = nil
		case errors.Is(err, context.DeadlineExceeded):
			entry.Status = backfill.StatusTimeout
			entry.Error = err.Error()
		default:
			entry.Status = backfill.StatusFailed
			entry.Error = err.Error()
		}

		mu.Lock()
		manifest.Record(entry)
		if persistErr := s.persistManifest(ctx, manifest); persistErr != nil {
			s.logInfo(fmt.Sprintf("Failed to persist manifest: %v", persistErr))
		}
		mu.Unlock()

		return result, err
	})

	summary := manifest.Summarize(planned, plannerSkips)
	s.logInfo(fmt.Sprintf("Complete - %s", summary.String()))
	return &summary, nil
}

// loadOrCreateManifest resumes a prior manifest by run id or starts a fresh
// one for this run.
func (s *BackfillService) loadOrCreateManifest(
	ctx context.Context,
	opts BackfillOptions,
	requested []int,
) (*backfill.Manifest, error) {
	if opts.ResumeFrom != "" {
		cv, err := s.ComputedValueDAO.FindByKey(ctx, data.ComputedValueKeyRunManifest(opts.ResumeFrom))
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest %s: %w", opts.ResumeFrom, err)
		}
		if cv == nil {
			return nil, fmt.Errorf("no manifest found for run %s", opts.ResumeFrom)
		}

		var manifest backfill.Manifest
		if err := json.Unmarshal(cv.Data, &manifest); err != nil {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", opts.ResumeFrom, err)
		}
		return &manifest, nil
	}

	return &backfill.Manifest{
		RunId:     uuid.New().String(),
		StartDate: opts.StartDate.Format("2006-01-02"),
		EndDate:   opts.EndDate.Format("2006-01-02"),
		Titles:    requested,
		StartedAt: time.Now().UTC(),
	}, nil
}

func (s *BackfillService) persistManifest(ctx context.Context, m *backfill.Manifest) error {
	payload, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	return s.ComputedValueDAO.Insert(ctx, &data.ComputedValue{
		Key:  data.ComputedValueKeyRunManifest(m.RunId),
		Data: payload,
	})
}

func (s *BackfillService) logInfo(message string) {
	log.Info(fmt.Sprintf("Backfill Process: %v", message))
}
