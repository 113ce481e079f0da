package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"studio/api"
	"studio/auth"
	"studio/blob"
	"studio/config"
	"studio/content"
	"studio/docstore"
	"studio/events"
	"studio/feed"
	"studio/session"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg)
	defer store.Close()

	var blobs blob.Store
	if cfg.S3Bucket != "" {
		s3Store, err := blob.NewS3Store(ctx, blob.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Profile:       cfg.S3Profile,
			KeyPrefix:     cfg.S3Prefix,
			PublicBaseURL: cfg.S3PublicBaseURL,
			UsePathStyle:  cfg.S3UsePathStyle,
		})
		if err != nil {
			log.Fatalf("failed to initialize object store: %v", err)
		}
		blobs = s3Store
		log.Printf("uploads go to s3 bucket %q", cfg.S3Bucket)
	} else {
		log.Println("S3 not configured; uploads disabled")
	}

	authSvc := auth.NewService(store, auth.LogMailer{}, auth.Config{})
	bootstrapAdmin(ctx, authSvc, cfg)

	sessions := session.NewManager(authSvc)
	defer sessions.Close()

	var sink content.EventSink
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := events.NewPublisher(events.PublisherConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		})
		if err != nil {
			log.Fatalf("failed to initialize event publisher: %v", err)
		}
		defer publisher.Close()
		sink = publisher
		log.Printf("publishing content events to %s", cfg.KafkaTopic)
	}

	contentSvc := content.NewService(store, content.Config{
		StrictReads: cfg.StrictReads,
		Blobs:       blobs,
		Events:      sink,
	})
	if err := contentSvc.Load(ctx); err != nil {
		log.Printf("initial content load finished with errors: %v", err)
	}
	log.Printf("content loaded: %d blogs, %d projects, %d categories",
		len(contentSvc.Articles()), len(contentSvc.Projects()), len(contentSvc.Categories()))

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Println("JWT_SECRET not set; using a random secret, logins will not survive a restart")
	}
	tokens, err := api.NewTokenIssuer(secret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to initialize token issuer: %v", err)
	}

	server := api.NewServer(contentSvc, sessions, feed.NewImporter(contentSvc), tokens)
	r := api.NewRouter(server, cfg.CORSOrigins)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	log.Printf("Starting studio API on %s", srv.Addr)
	if err := serve(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Println("shutdown complete")
}

// serve runs the HTTP server until ctx is cancelled (SIGINT/SIGTERM in
// main), then drains in-flight requests before returning so deferred
// service teardown runs.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config) docstore.Store {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set; using in-memory document store (development only)")
		return docstore.NewMemoryStore()
	}

	store, err := docstore.NewRedisStore(ctx, docstore.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Fatalf("failed to connect to document store: %v", err)
	}
	log.Printf("connected to redis document store at %s", cfg.RedisAddr)
	return store
}

// bootstrapAdmin creates the studio account on first start, when
// configured and no account exists yet.
func bootstrapAdmin(ctx context.Context, authSvc *auth.Service, cfg config.Config) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	exists, err := authSvc.HasUsers(ctx)
	if err != nil {
		log.Fatalf("failed to check for existing accounts: %v", err)
	}
	if exists {
		return
	}

	if _, err := authSvc.CreateUser(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to create admin account: %v", err)
	}
	log.Printf("created studio account for %s", cfg.AdminEmail)
}
