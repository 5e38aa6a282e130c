package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flow-hydraulics/sticker-board/boards"
	"github.com/flow-hydraulics/sticker-board/configs"
	"github.com/flow-hydraulics/sticker-board/datastore/gorm"
	"github.com/flow-hydraulics/sticker-board/handlers"
	"github.com/flow-hydraulics/sticker-board/otel"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	gormdb "gorm.io/gorm"
)

const version = "1.0.0"

var (
	sha1ver   string // sha1 revision used to build the program
	buildTime string // when the executable was built
)

func main() {
	var (
		printVersion bool
		envFilePath  string
	)

	// If we should just print the version number and exit
	flag.BoolVar(&printVersion, "version", false, "if true, print version and exit")
	flag.StringVar(&envFilePath, "envfile", "", "optional file to load environment variables from")
	flag.Parse()

	if printVersion {
		fmt.Printf("v%s build on %s from sha1 %s\n", version, buildTime, sha1ver)
		os.Exit(0)
	}

	cfg, err := configs.ParseConfig(&configs.Options{EnvFilePath: envFilePath})
	if err != nil {
		panic(err)
	}

	runServer(cfg)

	os.Exit(0)
}

func runServer(cfg *configs.Config) {
	configs.ConfigureLogger(cfg.LogLevel)

	log.Info("Starting server")

	// Board document store
	var (
		store boards.Store
		db    *gormdb.DB
	)

	switch cfg.StoreType {
	case configs.StoreTypeDatabase:
		var err error
		db, err = gorm.New(cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer gorm.Close(db)
		store = boards.NewGormStore(db)
	default:
		store = boards.NewFileStore(cfg.DataFile)
	}

	if err := store.Init(boards.Seed()); err != nil {
		log.Fatal(err)
	}

	log.WithFields(log.Fields{"type": cfg.StoreType}).Info("Store initialized")

	// Single writer for all document mutations
	writer := boards.NewWriter(
		store,
		cfg.WriterQueueCapacity,
		boards.WithMaxWriteRate(cfg.MaxWriteRate),
	)
	writer.Start()
	log.Info("Started writer")

	defer func() {
		writer.Stop()
		log.Info("Stopped writer")
	}()

	boardService := boards.NewService(store, writer)

	// HTTP handling
	boardHandler := handlers.NewBoards(boardService)

	r := mux.NewRouter()

	if cfg.TracingProjectID != "" {
		tp, err := otel.InitTracer(cfg.TracingProjectID, cfg.TracingSampleRatio)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Warn(err)
			}
			log.Info("Stopped tracer")
		}()
		otel.UseTracing(r)
		log.WithFields(log.Fields{"project": cfg.TracingProjectID}).Info("Tracing enabled")
	}

	addRoutes(r, boardHandler, writer)

	h := useMiddleware(r, cfg.ServerRequestTimeout)

	// Setup idempotency key middleware if it's enabled
	if !cfg.DisableIdempotencyMiddleware {
		var is handlers.IdempotencyStore
		switch cfg.IdempotencyMiddlewareDatabaseType {
		// Shared SQL/Gorm store (same as for the board store)
		case handlers.IdempotencyStoreTypeShared.String():
			if db == nil {
				log.Fatal("idempotency middleware db set to shared but store type is not database")
			}
			is = handlers.NewIdempotencyStoreGorm(db)
		// Redis, separate from app db
		case handlers.IdempotencyStoreTypeRedis.String():
			if cfg.IdempotencyMiddlewareRedisURL == "" {
				log.Fatal("idempotency middleware db set to redis but Redis URL is empty")
			}
			pool := handlers.NewRedisPool(cfg.IdempotencyMiddlewareRedisURL)
			defer func() {
				log.Info("Closing Redis pool..")
				if err := pool.Close(); err != nil {
					log.Warn(err)
				}
			}()
			is = handlers.NewIdempotencyStoreRedis(pool)
		case handlers.IdempotencyStoreTypeLocal.String():
			is = handlers.NewIdempotencyStoreLocal()
		}

		h = handlers.UseIdempotency(h, handlers.IdempotencyHandlerOptions{
			Expiry:      1 * time.Hour,
			IgnorePaths: []string{"/board", "/health", "/debug"}, // Read-only
		}, is)
	}

	// Server boilerplate
	srv := &http.Server{
		Handler:      h,
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		WriteTimeout: 0, // Disabled, set cfg.ServerRequestTimeout instead
		ReadTimeout:  0, // Disabled, set cfg.ServerRequestTimeout instead
	}

	// Run our server in a goroutine so that it doesn't block.
	go func() {
		log.
			WithFields(log.Fields{
				"host": cfg.Host,
				"port": cfg.Port,
			}).
			Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(err)
		}
	}()

	// Trap interrupt or sigterm and gracefully shutdown the server
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	// Block until we receive our signal.
	sig := <-c

	log.Infof("Got signal: %s. Shutting down..", sig)

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("Error in server shutdown: %s", err)
	}
}

func addRoutes(r *mux.Router, boardHandler *handlers.Boards, writer *boards.Writer) {
	// Debug
	r.Handle("/debug", handlers.Debug("https://github.com/flow-hydraulics/sticker-board", sha1ver, buildTime)).Methods(http.MethodGet)

	// Health
	r.HandleFunc("/health/ready", handlers.HandleHealthReady).Methods(http.MethodGet)
	r.Handle("/health/liveness", handlers.Liveness(func() (interface{}, error) {
		return writer.Status(), nil
	})).Methods(http.MethodGet)

	// Boards and stickers
	boardHandler.Register(r)
}

func useMiddleware(r *mux.Router, requestTimeout time.Duration) http.Handler {
	h := http.TimeoutHandler(r, requestTimeout, "request timed out")
	h = handlers.UseCors(h)
	h = handlers.UseLogging(h)
	h = handlers.UseCompress(h)
	return h
}
