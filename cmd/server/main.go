// @title Tarco API
// @version 1.0
// @description Commodity-code classification and deterministic trade-compliance payloads.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "github.com/wahajaslm/tarco/docs"
	"github.com/wahajaslm/tarco/internal/calibrate"
	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/embed"
	"github.com/wahajaslm/tarco/internal/handler"
	"github.com/wahajaslm/tarco/internal/index/qdrant"
	"github.com/wahajaslm/tarco/internal/repository/postgres"
	"github.com/wahajaslm/tarco/internal/rerank"
	"github.com/wahajaslm/tarco/internal/router"
	"github.com/wahajaslm/tarco/internal/service"
	s3storage "github.com/wahajaslm/tarco/internal/storage/s3"
	"github.com/wahajaslm/tarco/internal/validator"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	refRepo := postgres.NewReferenceRepo(db)
	sessionRepo := postgres.NewSessionRepo(db, cfg.Session.TTL)

	// Initialize vector index
	index := qdrant.New(&cfg.Qdrant)
	if err := index.EnsureCollection(context.Background()); err != nil {
		return fmt.Errorf("failed to prepare vector collection: %w", err)
	}

	// Initialize scoring models
	embedder := embed.NewOllamaEmbedder(&cfg.Models, cfg.Qdrant.Dimension)
	reranker := rerank.NewHTTPReranker(&cfg.Models)

	calibrator := calibrate.New(cfg.Classify.ConfidenceThreshold, cfg.Classify.MarginThreshold)
	if err := loadCalibrator(calibrator, cfg); err != nil {
		// An untrained calibrator serves the neutral 0.5 and abstains on
		// everything, which is safe. The server still starts.
		log.Printf("calibrator artifact not loaded, serving default confidence: %v", err)
	}

	// Initialize services
	classifySvc := service.NewClassifyService(embedder, index, reranker, calibrator, sessionRepo, refRepo, cfg.Classify)
	builderSvc := service.NewBuilderService(refRepo, validator.NewDefaultGate())
	extractSvc := service.NewExtractService(&cfg.Models)
	explainSvc := service.NewExplainService(&cfg.Models)
	chatSvc := service.NewChatService(extractSvc, classifySvc, builderSvc, explainSvc)
	indexWorker := service.NewIndexWorker(refRepo, embedder, index, cfg.Indexer)

	// Initialize handlers
	classifyH := handler.NewClassifyHandler(classifySvc)
	deterministicH := handler.NewDeterministicHandler(builderSvc, explainSvc)
	chatH := handler.NewChatHandler(chatSvc)
	adminH := handler.NewAdminHandler(indexWorker)
	healthH := handler.NewHealthHandler(refRepo, index)

	// Background expiry sweep for clarification sessions
	go sweepSessions(sessionRepo, cfg.Session.SweepInterval)

	// Setup router
	r := router.Setup(cfg, classifyH, deterministicH, chatH, adminH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// loadCalibrator installs the trained artifact from S3 when a bucket is
// configured, otherwise from local disk.
func loadCalibrator(calibrator *calibrate.Calibrator, cfg *config.Config) error {
	if cfg.Calibrator.Bucket != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		client, err := s3storage.NewClient(ctx, &cfg.Calibrator)
		if err != nil {
			return fmt.Errorf("s3 client: %w", err)
		}
		data, err := client.Download(ctx, cfg.Calibrator.Bucket, cfg.Calibrator.Key)
		if err != nil {
			return err
		}
		return calibrator.LoadBytes(data)
	}
	return calibrator.LoadFile(cfg.Calibrator.Path)
}

func sweepSessions(sessions *postgres.SessionRepo, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := sessions.SweepExpired(ctx)
		cancel()
		if err != nil {
			log.Printf("session sweep failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("session sweep removed %d expired sessions", n)
		}
	}
}
