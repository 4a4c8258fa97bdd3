// Package server boots the full PetPalace stack: MongoDB, Redis, storage,
// the queue workers, the scheduler, the websocket hub, the gRPC health
// endpoint, and the HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/graphql-go/graphql"

	gql "github.com/petpalace/petpalace/app/graphql"
	"github.com/petpalace/petpalace/app/jobs"
	"github.com/petpalace/petpalace/app/models"
	"github.com/petpalace/petpalace/app/repositories"
	"github.com/petpalace/petpalace/app/routes"
	"github.com/petpalace/petpalace/app/services"
	"github.com/petpalace/petpalace/config"
	"github.com/petpalace/petpalace/pkg/cache"
	"github.com/petpalace/petpalace/pkg/database"
	"github.com/petpalace/petpalace/pkg/event"
	"github.com/petpalace/petpalace/pkg/grpcserver"
	"github.com/petpalace/petpalace/pkg/logger"
	"github.com/petpalace/petpalace/pkg/metrics"
	"github.com/petpalace/petpalace/pkg/middleware"
	"github.com/petpalace/petpalace/pkg/queue"
	"github.com/petpalace/petpalace/pkg/reqid"
	"github.com/petpalace/petpalace/pkg/router"
	"github.com/petpalace/petpalace/pkg/schedule"
	"github.com/petpalace/petpalace/pkg/session"
	"github.com/petpalace/petpalace/pkg/storage"
	"github.com/petpalace/petpalace/pkg/ws"
)

// Run boots everything and blocks until SIGINT/SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.Load(); err != nil {
		return err
	}

	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background()) //nolint:errcheck

	if err := database.EnsureIndexes(ctx); err != nil {
		logger.Warn("boot: index sync failed", "error", err)
	}

	// Persist logs to Mongo alongside stderr once the database is up.
	if h, err := logger.NewMongoHandler(database.C(database.ColLogs)); err == nil {
		logger.UseHandler(h)
		defer h.Close()
	}

	// Redis is optional: cache, sessions, and the queue degrade without it.
	if err := cache.Connect(); err != nil {
		logger.Warn("boot: redis unavailable, caching disabled", "error", err)
	}

	storage.Connect()

	StartQueue(ctx, 4)
	StartSchedule(ctx)

	hub := bootFeed()

	schema, err := gql.NewSchema(services.NewCatalogService())
	if err != nil {
		return err
	}

	grpcSrv, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		return err
	}
	defer grpcserver.Stop(grpcSrv)

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           buildRouter(hub, schema).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening", "addr", httpSrv.Addr, "env", config.AppEnv())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func buildRouter(hub *ws.Hub, schema graphql.Schema) *router.Router {
	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		session.Middleware(session.DefaultOptions()),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.RegisterAPI(r, hub, schema)
	r.Handle("/metrics", metrics.Handler())
	return r
}

// StartQueue picks the Redis driver when Redis is up, the in-process driver
// otherwise, registers the jobs, and starts the workers. Also used by the
// standalone queue:work command.
func StartQueue(ctx context.Context, workers int) {
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(ctx, cache.RDB))
	} else {
		logger.Warn("queue: redis unavailable, jobs stay in-process")
		queue.SetDriver(queue.NewMemoryDriver())
	}
	queue.UseCollection(database.C(database.ColFailedJobs))

	jobs.RegisterAll()
	queue.StartWorkers(ctx, workers)
}

// StartSchedule registers the recurring tasks and starts the scheduler.
// Also used by the standalone schedule:run command.
func StartSchedule(ctx context.Context) {
	offers := repositories.NewOfferRepository()

	// Nightly sweep behind the lazy per-read expiry, so offers nobody
	// looked at still flip over.
	schedule.Daily().At("00:05").Name("offers:expire").Run(func() {
		n, err := offers.ExpireDue(context.Background(), time.Now())
		if err != nil {
			logger.Error("schedule: offer sweep failed", "error", err)
			return
		}
		if n > 0 {
			logger.Info("schedule: offers expired", "count", n)
		}
	})

	// Keep the homepage strip warm.
	schedule.Every(5).Minutes().Name("catalog:bestsellers").WithoutOverlapping().Run(func() {
		if _, err := services.NewCatalogService().Bestsellers(context.Background()); err != nil {
			logger.Warn("schedule: bestseller refresh failed", "error", err)
		}
	})

	schedule.Start(ctx)
}

// bootFeed starts the admin websocket hub and bridges order events onto it.
func bootFeed() *ws.Hub {
	hub := ws.NewHub()
	go hub.Run()

	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		hub.BroadcastJSON(map[string]interface{}{"event": services.EventOrderPlaced, "order": payload})
	})
	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		hub.BroadcastJSON(map[string]interface{}{"event": services.EventOrderStatusChanged, "order": payload})
	})

	// The confirmation mail rides the queue, not the request.
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		job := &jobs.OrderMailJob{OrderID: order.ID.Hex()}
		if err := queue.Dispatch(jobs.OrderMailJobName, job); err != nil {
			logger.Error("queue: order mail dispatch failed", "order", order.Number, "error", err)
		}
	})

	return hub
}
