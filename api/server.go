package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/encarta/config"
	"github.com/meghashyamc/encarta/db/kvdb"
	"github.com/meghashyamc/encarta/db/searchdb"
	"github.com/meghashyamc/encarta/gateway"
	"github.com/meghashyamc/encarta/logger"
	"github.com/meghashyamc/encarta/media"
	"github.com/meghashyamc/encarta/notes"
	"github.com/meghashyamc/encarta/services/assistant"
	"github.com/meghashyamc/encarta/services/index"
	"github.com/meghashyamc/encarta/services/reader"
	"github.com/meghashyamc/encarta/services/search"
	"github.com/meghashyamc/encarta/validation"
	"github.com/meghashyamc/encarta/viewstate"
	"github.com/prometheus/client_golang/prometheus"
)

type server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	registry   *prometheus.Registry
	kvdb       kvdb.DB
	searchdb   searchdb.DB
	indexer    *index.Service
	gateway    *gateway.Client
	controller *viewstate.Controller
	resolver   *media.Resolver
	validator  *validation.Validator
	search     *search.Service
	assistant  *assistant.Service
	reader     *reader.Service
	logger     logger.Logger
}

func Run(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)

	defer cancel()

	s := &server{
		cfg:      cfg,
		registry: newRegistry(),
		logger:   logger.NewWithFile(cfg.GetLogFile()),
	}
	if err := s.setupDependencies(ctx); err != nil {
		return err
	}
	if err := s.setupRouter(); err != nil {
		return err
	}
	s.setupHTTPServer()
	s.setupGracefulShutdown(ctx)

	return nil
}

// setupDependencies closes any store it opened when a later dependency fails.
func (s *server) setupDependencies(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			s.closeStores()
		}
	}()

	// Notes degrade to unavailable instead of stopping the server.
	var notesKV notes.KV
	if boltDB, err := kvdb.New(s.logger, s.cfg); err != nil {
		s.logger.Warn("notes storage unavailable", "err", err.Error())
	} else {
		s.kvdb = boltDB
		notesKV = boltDB
	}

	bleveDB, err := searchdb.New(s.logger, s.cfg)
	if err != nil {
		s.logger.Error("error creating searchDB", "err", err.Error())
		return err
	}
	s.searchdb = bleveDB

	s.gateway, err = gateway.New(s.cfg.GetBackendURL(),
		gateway.WithLogger(s.logger),
		gateway.WithPrometheus(s.registry),
		gateway.WithTextProxy(s.cfg.GetTextProxyURL()),
		gateway.WithCategoryCountTTL(s.cfg.GetCategoryCountTTL()),
	)
	if err != nil {
		s.logger.Error("error creating gateway client", "err", err.Error())
		return err
	}

	s.validator, err = validation.New(s.logger)
	if err != nil {
		s.logger.Error("error creating validator", "err", err.Error())
		return err
	}

	s.controller = viewstate.NewController()
	s.resolver = media.New(media.Config{
		PDFAssets:     s.cfg.GetPDFAssets(),
		DefaultPDF:    s.cfg.GetDefaultPDF(),
		Fixtures:      media.Fixtures{Audio: s.cfg.GetAudioFixture(), Video: s.cfg.GetVideoFixture()},
		Blocklist:     s.cfg.GetEmbedBlocklist(),
		TextProxyBase: s.gateway.TextProxyBase(),
	})

	s.indexer = index.New(ctx, s.logger, bleveDB)
	s.search = search.New(s.logger, s.gateway, s.indexer, s.controller)
	s.assistant = assistant.New(s.logger, s.gateway, bleveDB, s.controller,
		assistant.WithLocalFallback(s.cfg.GetChatLocalFallback()),
	)
	s.reader = reader.New(s.logger, s.gateway, s.resolver, notes.New(notesKV, s.logger), s.controller)

	return nil

}

func (s *server) setupRouter() error {
	metrics, err := newHTTPMetrics(s.registry)
	if err != nil {
		s.logger.Error("error registering http metrics", "err", err.Error())
		return err
	}

	router := newRouter(metrics)

	router.Use(loggingMiddleware(s.logger))

	s.setupRoutes(router)

	s.router = router
	return nil
}

func (s *server) setupHTTPServer() {

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", s.cfg.GetPort()),
		Handler: s.router.Handler(),
	}
	s.httpServer = httpServer
	s.logger.Info("starting http server", "addr", httpServer.Addr, "backend", s.cfg.GetBackendURL())
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()
}

func (s *server) setupGracefulShutdown(ctx context.Context) {

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		s.logger.Info("starting to shut down http server")
		shutdownCtx := context.Background()
		shutdownCtx, cancel := context.WithTimeout(shutdownCtx, 10*time.Second)
		defer cancel()
		defer s.closeStores()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error shutting down http server", "err", err)
			return
		}
		s.logger.Info("shut down http server successfully")
	}()

	wg.Wait()
}

// closeStores drains the indexing queue before the library it writes to is closed.
func (s *server) closeStores() {
	if s.indexer != nil {
		s.indexer.Stop()
	}
	if s.kvdb != nil {
		s.kvdb.Close()
		s.kvdb = nil
	}
	if s.searchdb != nil {
		s.searchdb.Close()
		s.searchdb = nil
	}
}
