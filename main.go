package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nxt-watch/domain/repository"
	"nxt-watch/infrastructure/cache"
	"nxt-watch/infrastructure/clients/nxtwatch"
	"nxt-watch/infrastructure/configuration"
	"nxt-watch/infrastructure/logger"
	"nxt-watch/infrastructure/persistence"
	"nxt-watch/infrastructure/realtime"
	httpHandler "nxt-watch/interfaces/http"
	"nxt-watch/server"
	"nxt-watch/usecase"

	"github.com/gin-gonic/gin"

	"golang.org/x/sync/errgroup"
)

const (
	cleanupInterval = time.Minute
	shutdownTimeout = 5 * time.Second
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	logger.GetLogger().WithField("files", configuration.EnvFiles).Info("Env files loaded")

	app := configuration.C.App
	if os.Getenv("ENV") == "production" || os.Getenv("ENV") == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.Writer()

	videoAPI, err := nxtwatch.NewClient(nxtwatch.Config{
		BaseURL: configuration.C.API.BaseURL,
		Timeout: time.Duration(configuration.C.API.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while instantiate video API client")
		os.Exit(1)
	}
	logger.GetLogger().WithField("baseUrl", configuration.C.API.BaseURL).Info("Video API client initialized")

	stateRepository := initiateStateRepository(ctx, g)

	screenHub := realtime.NewScreenHub()
	screenRegistry := usecase.NewScreenRegistry(videoAPI, time.Duration(configuration.C.Session.ScreenIdleMin)*time.Minute).
		WithPublisher(httpHandler.ScreenPublisher(screenHub))
	g.Go(func() error {
		return screenRegistry.Run(ctx, cleanupInterval)
	})

	sessionUsecase := usecase.NewSessionUseCase(videoAPI, stateRepository, screenRegistry)
	libraryUsecase := usecase.NewLibraryUseCase(stateRepository, videoAPI, screenRegistry)

	cookieName := configuration.C.Session.CookieName
	userHandler := httpHandler.NewUserHandler(sessionUsecase, httpHandler.CookieConfig{
		Name:   cookieName,
		MaxAge: time.Duration(configuration.C.Session.MaxAgeDays) * 24 * time.Hour,
		Secure: configuration.C.Session.Secure,
	})
	videoHandler := httpHandler.NewVideoHandler(screenRegistry, libraryUsecase)
	preferenceHandler := httpHandler.NewPreferenceHandler(libraryUsecase)
	pageHandler := httpHandler.NewPageHandler(sessionUsecase, libraryUsecase, cookieName)
	eventHandler := httpHandler.NewEventHandler(screenHub)

	router := server.InitiateRouter(userHandler, videoHandler, preferenceHandler, pageHandler, eventHandler, sessionUsecase, server.Options{
		CookieName:   cookieName,
		AllowOrigins: configuration.C.Cors.AllowOrigins,
		LoginRate:    configuration.C.Session.LoginRate,
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	err = g.Wait()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
	logger.GetLogger().Info("Application stopped")
}

// initiateStateRepository picks where per-session state lives. Redis is used when configured
// and reachable; otherwise state stays in process memory.
func initiateStateRepository(ctx context.Context, g *errgroup.Group) repository.IUserState {
	ttl := time.Duration(configuration.C.State.TTLDays) * 24 * time.Hour
	if configuration.C.State.Backend == "redis" {
		redisClient, err := cache.NewCache(
			ctx,
			configuration.C.RedisClient.URL,
			configuration.C.RedisClient.RedisAddr(),
			configuration.C.RedisClient.Username,
			configuration.C.RedisClient.Password,
			configuration.C.RedisClient.DB,
		)
		if err == nil {
			g.Go(func() error {
				<-ctx.Done()
				return redisClient.Close()
			})
			logger.GetLogger().Info("Session state stored in Redis")
			return persistence.NewRedisStateRepository(redisClient, ttl)
		}
		logger.GetLogger().WithField("error", err).Warn("Redis not available - keeping session state in memory")
	}

	memory := persistence.NewMemoryStateRepository(ttl)
	g.Go(func() error {
		return memory.Run(ctx, cleanupInterval)
	})
	logger.GetLogger().Info("Session state stored in memory")
	return memory
}
