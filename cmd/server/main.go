// Command server boots the SynApSec core API: Postgres store, optional
// Neo4j graph mirror, optional S3 archive, optional Temporal worker, cron
// sweeps, and the Gin HTTP transport. Grounded in the teacher's
// cmd/server/main.go boot sequence (connect DB → migrate → connect
// Neo4j → wire modules → start background workers → serve), trimmed from
// its module-registry shape to SynApSec's single httpapi.Server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/synapsec/core/internal/archive"
	"github.com/synapsec/core/internal/config"
	"github.com/synapsec/core/internal/graph"
	"github.com/synapsec/core/internal/httpapi"
	"github.com/synapsec/core/internal/identity"
	"github.com/synapsec/core/internal/metrics"
	"github.com/synapsec/core/internal/notify"
	"github.com/synapsec/core/internal/parsers"
	"github.com/synapsec/core/internal/pgstore"
	"github.com/synapsec/core/internal/schedule"
	"github.com/synapsec/core/internal/workflows"
)

func main() {
	cfg := config.Load()

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "" {
		ginMode = "debug"
	}
	gin.SetMode(ginMode)

	log.Println("🚀 Starting SynApSec Core")
	log.Println(strings.Repeat("=", 70))

	if cfg.Database.URL == "" {
		log.Fatal("❌ DATABASE_URL is required")
	}

	log.Println("🔗 Connecting to Postgres...")
	if err := pgstore.Migrate(cfg.Database.URL); err != nil {
		log.Fatalf("❌ FATAL: migrations failed: %v", err)
	}
	log.Println("✅ Database migrated")

	store, err := pgstore.Open(cfg.Database)
	if err != nil {
		log.Fatalf("❌ FATAL: database connection failed: %v", err)
	}
	defer store.Close()
	log.Println("✅ Database connection established")

	// Optional Neo4j attack-chain mirror (spec §4.E supplement).
	var graphMirror *graph.Mirror
	if cfg.Neo4j.Enabled {
		log.Printf("🔗 Connecting to Neo4j at %s...", cfg.Neo4j.URI)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		graphMirror, err = graph.Open(ctx, graph.Config{
			URI: cfg.Neo4j.URI, Username: cfg.Neo4j.Username, Password: cfg.Neo4j.Password, Database: cfg.Neo4j.Database,
		})
		cancel()
		if err != nil {
			log.Printf("⚠️  Neo4j unavailable, graph mirror disabled: %v", err)
			graphMirror = nil
		} else {
			log.Println("✅ Neo4j connection established")
			defer graphMirror.Close(context.Background())
		}
	} else {
		log.Println("ℹ️  Neo4j disabled (set NEO4J_ENABLED=true to enable)")
	}

	// Optional S3 archive of raw scanner uploads.
	var archiver *archive.Archiver
	if cfg.S3.Enabled {
		archiver, err = archive.New(archive.Config{
			Region: cfg.S3.Region, Bucket: cfg.S3.Bucket, AccessKey: cfg.S3.AccessKey, SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			log.Printf("⚠️  S3 archive unavailable: %v", err)
			archiver = nil
		} else {
			log.Println("✅ S3 archive configured")
		}
	} else {
		log.Println("ℹ️  S3 archive disabled (set ARCHIVE_S3_ENABLED=true to enable)")
	}

	metrics.Register(prometheus.DefaultRegisterer)
	log.Println("✅ Metrics registered")

	notifyHub := notify.NewHub()
	go notifyHub.Run()

	sweeper := schedule.NewSweeper(store)
	if err := sweeper.Start(context.Background()); err != nil {
		log.Fatalf("❌ FATAL: failed to start scheduled sweeps: %v", err)
	}
	defer sweeper.Stop()

	// Optional durable correlation sweep worker.
	var temporalWorker *workflows.Worker
	if cfg.Temporal.Enabled {
		log.Printf("⏰ Initializing Temporal worker (address: %s)...", cfg.Temporal.HostPort)
		temporalWorker, err = workflows.NewWorker(cfg.Temporal.HostPort, store)
		if err != nil {
			log.Printf("⚠️  Temporal worker unavailable: %v", err)
			temporalWorker = nil
		} else {
			go func() {
				if err := temporalWorker.Start(); err != nil {
					log.Printf("⚠️  Temporal worker exited: %v", err)
				}
			}()
			log.Println("✅ Temporal worker started")
		}
	} else {
		log.Println("ℹ️  Temporal disabled (set TEMPORAL_ENABLED=true to enable)")
	}

	jwtService := identity.NewJWTService(cfg.JWT)

	server := &httpapi.Server{
		Store:    store,
		Parsers:  parsers.NewRegistry(),
		JWT:      jwtService,
		Notify:   notifyHub,
		Graph:    graphMirror,
		Archiver: archiver,
		PG:       store,
	}

	router := gin.Default()
	router.Use(gin.Recovery())
	server.RegisterHealth(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1", authMiddleware(jwtService))
	server.RegisterRoutes(apiV1)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	if temporalWorker != nil {
		temporalWorker.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ server forced to shutdown: %v", err)
	}
	log.Println("✅ Server exited cleanly")
}

// authMiddleware validates the bearer token for scanner_api_keys-backed
// ApiServiceAccount identities (spec §1 scopes full user login out — this is
// the only identity surface this core issues tokens for).
func authMiddleware(jwtService *identity.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "missing bearer token"}})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(authHeader[7:])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"}})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID.String())
		c.Set("user_role", string(claims.Role))
		c.Next()
	}
}
