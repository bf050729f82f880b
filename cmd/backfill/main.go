package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rbannon32/lawscan/server/dao"
	"github.com/rbannon32/lawscan/server/httpclient"
	"github.com/rbannon32/lawscan/server/metrics"
	"github.com/rbannon32/lawscan/server/service"
	"github.com/rbannon32/lawscan/server/snapshot"
	"github.com/spf13/cobra"
)

func main() {
	var (
		startDateStr  string
		endDateStr    string
		titlesCSV     string
		workers       int
		jobTimeout    time.Duration
		smartSkip     bool
		resumeFrom    string
		dryRun        bool
		metricsConfig string
	)

	rootCmd := &cobra.Command{
		Use:   "backfill",
		Short: "Backfill regulation snapshots across a date range",
		Long: `Backfill ingests month-end snapshots for the requested titles across a
calendar range. Progress is persisted after every job; an interrupted run
can be resumed with --resume-from.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse("2006-01-02", startDateStr)
			if err != nil {
				return fmt.Errorf("invalid --start-date: %w", err)
			}
			endDate, err := time.Parse("2006-01-02", endDateStr)
			if err != nil {
				return fmt.Errorf("invalid --end-date: %w", err)
			}

			titleNums, err := parseTitles(titlesCSV)
			if err != nil {
				return err
			}

			backfillService, cleanup, err := buildBackfillService(metricsConfig)
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := backfillService.Run(cmd.Context(), service.BackfillOptions{
				StartDate:  startDate,
				EndDate:    endDate,
				TitleNums:  titleNums,
				Workers:    workers,
				JobTimeout: jobTimeout,
				SmartSkip:  smartSkip,
				ResumeFrom: resumeFrom,
				DryRun:     dryRun,
			})
			if err != nil {
				return err
			}

			fmt.Println(summary.String())
			return nil
		},
	}

	rootCmd.Flags().StringVar(&startDateStr, "start-date", "", "range start (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&endDateStr, "end-date", "", "range end (YYYY-MM-DD)")
	rootCmd.Flags().StringVar(&titlesCSV, "titles", "", "comma-separated title numbers (default: all non-reserved)")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "concurrent titles (default 4)")
	rootCmd.Flags().DurationVar(&jobTimeout, "job-timeout", 30*time.Minute, "per-title ingestion deadline")
	rootCmd.Flags().BoolVar(&smartSkip, "smart-skip", true, "skip dates the amendment signal proves unchanged")
	rootCmd.Flags().StringVar(&resumeFrom, "resume-from", "", "run id of a prior manifest to resume")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "plan the job set without ingesting")
	rootCmd.Flags().StringVar(&metricsConfig, "metrics-config", "", "path to a YAML metrics lexicon override")
	cobra.CheckErr(rootCmd.MarkFlagRequired("start-date"))
	cobra.CheckErr(rootCmd.MarkFlagRequired("end-date"))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func parseTitles(csv string) ([]int, error) {
	if strings.TrimSpace(csv) == "" {
		return nil, nil
	}
	var nums []int
	for _, token := range strings.Split(csv, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		num, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("invalid title number %q", token)
		}
		nums = append(nums, num)
	}
	return nums, nil
}

func buildBackfillService(metricsConfigPath string) (*service.BackfillService, func(), error) {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to reach database: %w", err)
	}

	cfg := metrics.DefaultConfig()
	if metricsConfigPath != "" {
		cfg, err = metrics.LoadConfig(metricsConfigPath)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to load metrics config: %w", err)
		}
	}

	extractor, err := metrics.NewExtractor(cfg)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to build metrics extractor: %w", err)
	}

	client := httpclient.NewECFRClient()
	sectionDAO := &dao.SectionDAO{Db: db}

	backfillService := &service.BackfillService{
		Client: client,
		Ingestion: &service.IngestionService{
			Client:     client,
			SectionDAO: sectionDAO,
			Assembler:  snapshot.NewAssembler(extractor),
		},
		ComputedValueDAO: &dao.ComputedValueDAO{Db: db},
	}

	return backfillService, func() { db.Close() }, nil
}
