package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gstledger/internal/cache/redis"
	"gstledger/internal/config"
	"gstledger/internal/gst"
	"gstledger/internal/handler"
	"gstledger/internal/logger"
	"gstledger/internal/repository/postgres"
	"gstledger/internal/router"
	"gstledger/internal/service"
	s3storage "gstledger/internal/storage/s3"
)

const shutdownTimeout = 15 * time.Second

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

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	rdb, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()

	// Initialize the submission archive
	archive, err := s3storage.NewArchive(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 archive: %w", err)
	}

	// Initialize repositories
	voucherRepo := postgres.NewVoucherRepo(db)
	companyRepo := postgres.NewCompanyRepo(db)
	returnRepo := postgres.NewReturnRepo(db)
	hsnRepo := postgres.NewHSNRepo(db)
	draftStore := redis.NewDraftStore(rdb, cfg.Redis.KeyPrefix)

	// Build the computation core
	hsnLookup, err := gst.LoadHSNLookup(context.Background(), hsnRepo)
	if err != nil {
		return err
	}
	zeroRated, err := gst.ZeroRatedRuleByName(cfg.GST.ZeroRatedRule)
	if err != nil {
		return err
	}
	classifier := gst.NewClassifier(
		gst.WithZeroRatedRule(zeroRated),
		gst.WithHSNLookup(hsnLookup),
	)
	assembler := gst.NewAssembler(classifier, cfg.GST.B2CLThreshold)
	zl.Info("gst core ready",
		zap.Int("hsn_codes", hsnLookup.Len()),
		zap.String("zero_rated_rule", zeroRated.Name()),
		zap.String("b2cl_threshold", cfg.GST.B2CLThreshold.String()),
	)

	// Initialize services
	returnSvc := service.NewReturnService(voucherRepo, companyRepo, returnRepo, draftStore, archive, assembler, &cfg.GST, zl)
	invoiceSvc := service.NewInvoiceService(voucherRepo, companyRepo, &cfg.GST, zl)

	// Initialize handlers
	returnH := handler.NewReturnHandler(returnSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	healthH := handler.NewHealthHandler(
		handler.Dependency{Name: "database", Ping: db.PingContext},
		handler.Dependency{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}},
	)

	// Setup router
	r := router.Setup(zl, cfg.CORS.AllowedOrigins, returnH, invoiceH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		zl.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
