package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rbannon32/lawscan/server/api"
	"github.com/rbannon32/lawscan/server/dao"
	"github.com/rbannon32/lawscan/server/diff"
	"github.com/rbannon32/lawscan/server/httpclient"
	"github.com/rbannon32/lawscan/server/metrics"
	"github.com/rbannon32/lawscan/server/service"
	"github.com/rbannon32/lawscan/server/snapshot"
)

const diffCacheSize = 256

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, relying on environment")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(fmt.Sprintf("Failed to reach database: %v", err))
	}

	metricsConfig := metrics.DefaultConfig()
	if path := os.Getenv("METRICS_CONFIG"); path != "" {
		metricsConfig, err = metrics.LoadConfig(path)
		if err != nil {
			log.Fatal(fmt.Sprintf("Failed to load metrics config: %v", err))
		}
	}

	extractor, err := metrics.NewExtractor(metricsConfig)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to build metrics extractor: %v", err))
	}

	client := httpclient.NewECFRClient()
	sectionDAO := &dao.SectionDAO{Db: db}
	summaryDAO := &dao.SummaryDAO{Db: db}
	computedValueDAO := &dao.ComputedValueDAO{Db: db}

	engine, err := diff.NewEngine(sectionDAO, diffCacheSize)
	if err != nil {
		log.Fatal(fmt.Sprintf("Failed to build diff engine: %v", err))
	}

	ingestionService := &service.IngestionService{
		Client:     client,
		SectionDAO: sectionDAO,
		Assembler:  snapshot.NewAssembler(extractor),
	}
	verificationService := &service.VerificationService{
		Client:     client,
		SectionDAO: sectionDAO,
	}
	changeTrackingService := &service.ChangeTrackingService{
		Engine:           engine,
		ComputedValueDAO: computedValueDAO,
	}
	rollupService := &service.RollupService{
		SectionDAO: sectionDAO,
		SummaryDAO: summaryDAO,
	}
	backfillService := &service.BackfillService{
		Client:           client,
		Ingestion:        ingestionService,
		ComputedValueDAO: computedValueDAO,
	}

	app := fiber.New()
	router := app.Group("/api")

	(&api.IngestAPI{
		Router:              router,
		IngestionService:    ingestionService,
		VerificationService: verificationService,
	}).Register()
	(&api.ChangeTrackingAPI{
		Router:                router,
		ChangeTrackingService: changeTrackingService,
	}).Register()
	(&api.RollupAPI{
		Router:        router,
		RollupService: rollupService,
		SummaryDAO:    summaryDAO,
	}).Register()
	(&api.BackfillAPI{
		Router:           router,
		BackfillService:  backfillService,
		ComputedValueDAO: computedValueDAO,
	}).Register()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Fatal(app.Listen(":" + port))
}
