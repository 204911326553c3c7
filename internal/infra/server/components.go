package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-contrib/gzip"
	ginLogger "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.elastic.co/apm/module/apmgin"

	courseController "github.com/roach88/journey/internal/api/controllers/course"
	"github.com/roach88/journey/internal/config"
	domainSync "github.com/roach88/journey/internal/domain/sync"
	apmTracing "github.com/roach88/journey/internal/infra/apm/tracing"
	"github.com/roach88/journey/internal/infra/authfile"
	"github.com/roach88/journey/internal/infra/blobdir"
	cronSync "github.com/roach88/journey/internal/infra/cron/sync"
	"github.com/roach88/journey/internal/infra/events"
	"github.com/roach88/journey/internal/infra/moodle"
	"github.com/roach88/journey/internal/infra/server/routing"
	"github.com/roach88/journey/internal/infra/sqlite"
	sqliteCourse "github.com/roach88/journey/internal/infra/sqlite/course"
	"github.com/roach88/journey/internal/infra/sqlite/syncledger"
)

const mirrorDbFile = "journey.db"

// Components holds all the wired-up pieces of a running journeyd and knows
// how to run and shut them down.
type Components struct {
	config *config.App

	ginEngine *gin.Engine
	poller    *cronSync.Poller

	closeDb func() error
}

// NewComponents wires the mirror store, the remote gateway, the sync
// orchestrator and the HTTP surface together from config.
func NewComponents(appConfig *config.App) (*Components, error) {
	if err := os.MkdirAll(appConfig.DataDir, 0o755); err != nil {
		return nil, err
	}

	db, err := sqlite.Open(filepath.Join(appConfig.DataDir, mirrorDbFile))
	if err != nil {
		return nil, err
	}

	courseStore := sqliteCourse.New(db)
	ledger := syncledger.New(db, appConfig.Sync.Ttl, appConfig.Sync.FailureBackoff)
	broadcaster := events.NewBroadcaster()
	orchestrator := domainSync.NewOrchestrator(ledger, broadcaster, appConfig.Sync.Ttl)

	credProvider := authfile.New(appConfig.DataDir)
	gateway := moodle.New(appConfig.Remote.RequestTimeout)
	blobStore := blobdir.New(appConfig.DataDir)

	controller := courseController.New(
		courseStore,
		gateway,
		credProvider,
		orchestrator,
		blobStore,
		appConfig.Modules.SupportedTypes,
	)

	tracer := apmTracing.NewTracer()
	poller := cronSync.NewPoller(tracer, appConfig.Sync.PollInterval, func(ctx context.Context) error {
		_, apiErr := controller.ListCourses(ctx)
		if apiErr != nil {
			return apiErr
		}
		return nil
	})

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())
	ginEngine.Use(ginLogger.SetLogger())
	ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	ginEngine.Use(apmgin.Middleware(ginEngine))
	ginEngine.NoRoute(routing.NoRoute)
	ginEngine.NoMethod(routing.NoMethod)

	coursesHandler := routing.CoursesRoutesHandler{Controller: controller}
	coursesHandler.RegisterRoutes(ginEngine)
	eventsHandler := routing.EventsRoutesHandler{Broadcaster: broadcaster}
	eventsHandler.RegisterRoutes(ginEngine)

	return &Components{
		config:    appConfig,
		ginEngine: ginEngine,
		poller:    poller,
		closeDb:   db.Close,
	}, nil
}

// Run serves until shut down via the returned stop function or a server
// error. It blocks.
func (c *Components) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    c.config.BindAddress,
		Handler: c.ginEngine,
	}

	c.poller.Start()

	serveErrs := make(chan error, 1)
	go func() {
		log.Info().Str("address", c.config.BindAddress).Msg("Serving")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrs <- err
		}
	}()

	select {
	case err := <-serveErrs:
		c.shutdownSupport()
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), c.config.ShutdownTimeout)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		c.shutdownSupport()
		return err
	}
}

func (c *Components) shutdownSupport() {
	c.poller.Stop()
	if err := c.closeDb(); err != nil {
		log.Warn().Err(err).Msg("Could not close the mirror database cleanly")
	}
}
