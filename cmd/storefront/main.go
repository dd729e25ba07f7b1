package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/localstore"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/media"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/notify"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lmicroseconds)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer database.Close()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db pool: %v", err)
	}
	defer pool.Close()

	orders := order.NewRepository(database)
	checkouts := checkout.NewRegistry()

	deps := httpapi.Deps{
		Logger:           logger,
		Orders:           orders,
		Carts:            localstore.NewPostgres(database),
		Checkouts:        checkouts,
		NotifyTimeout:    cfg.NotifyTimeout,
		SecureCookies:    cfg.SecureCookies,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	}

	// --- Google Cloud ---
	var gcpOpts []option.ClientOption
	if cfg.GoogleCredentialsFile != "" {
		gcpOpts = append(gcpOpts, option.WithCredentialsFile(cfg.GoogleCredentialsFile))
	}

	var images catalog.ImageUploader
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewClient(ctx, gcpOpts...)
		if err != nil {
			logger.Fatalf("gcs client: %v", err)
		}
		defer gcs.Close()
		images = media.NewGCSUploader(gcs, cfg.GCSBucket)
		logger.Printf("product images go to gs://%s", cfg.GCSBucket)
	} else {
		logger.Printf("GCS_BUCKET not set: image uploads are ignored")
	}
	deps.Catalog = catalog.NewService(catalog.NewPostgresRepository(pool), images, logger)

	if cfg.FirestoreProjectID != "" {
		fs, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, gcpOpts...)
		if err != nil {
			logger.Fatalf("firestore client: %v", err)
		}
		defer fs.Close()
		deps.Roles = session.NewFirestoreDirectory(fs)
	}

	// --- Sessions ---
	secret := cfg.SessionSecret
	if secret == "" {
		secret = rand.Text()
		logger.Printf("SESSION_SECRET not set: sessions will not survive a restart")
	}
	codec := session.NewCodec(secret)
	codec.Secure = cfg.SecureCookies
	deps.Sessions = codec

	// --- Notifications ---
	notifyHTTP := &http.Client{Timeout: cfg.NotifyTimeout}
	var channels []notify.Notifier
	if cfg.CallMeBotAPIKey != "" && cfg.CallMeBotPhone != "" {
		channels = append(channels, notify.NewWhatsApp(cfg.CallMeBotPhone, cfg.CallMeBotAPIKey, notifyHTTP))
	}
	if cfg.SendGridAPIKey != "" && cfg.NotifyEmailFrom != "" && cfg.NotifyEmailTo != "" {
		channels = append(channels, notify.NewEmail(cfg.SendGridAPIKey, cfg.NotifyEmailFrom, cfg.NotifyEmailTo))
	}
	deps.Notifier = notify.NewMulti(channels...)
	if len(channels) == 0 {
		logger.Printf("no notification channel configured: owners will not be alerted")
	}

	// --- AMQP ---
	if cfg.RabbitURL != "" {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("rabbitmq: %v", err)
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn, events.NewSequenceRepository(database))
		if err != nil {
			logger.Fatalf("rabbitmq publisher: %v", err)
		}
		defer pub.Close()
		deps.Events = pub
	} else {
		logger.Printf("RABBITMQ_URL not set: %s events are not published", events.OrderPlacedEventName)
	}

	// --- HTTP ---
	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Printf("http listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("shutdown signal: %s", sig)
	case err := <-errCh:
		logger.Printf("fatal error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)
	checkouts.Wait()
	cancel()

	logger.Printf("shutdown complete")
}
