package server

import (
	"html/template"
	"slices"
	"time"

	httpHandler "nxt-watch/interfaces/http"
	"nxt-watch/interfaces/middleware"
	"nxt-watch/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Options carries the router settings that come from configuration
type Options struct {
	CookieName   string
	AllowOrigins []string
	// LoginRate is login attempts per minute per client; 0 disables throttling
	LoginRate int
	Templates *template.Template
}

func InitiateRouter(
	userHandler httpHandler.IUserHandler,
	videoHandler httpHandler.IVideoHandler,
	preferenceHandler httpHandler.IPreferenceHandler,
	pageHandler httpHandler.IPageHandler,
	eventHandler httpHandler.IEventHandler,
	sessionUsecase usecase.ISessionUseCase,
	options Options,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	if cfg, ok := corsConfig(options.AllowOrigins); ok {
		router.Use(cors.New(cfg))
	}

	templates := options.Templates
	if templates == nil {
		templates = httpHandler.Templates()
	}
	router.SetHTMLTemplate(templates)

	throttle := func(ctx *gin.Context) { ctx.Next() }
	if options.LoginRate > 0 {
		throttle = middleware.NewRateLimiter(options.LoginRate).Middleware()
	}

	router.GET("/healthz", pageHandler.Healthz)
	router.GET("/not-found", pageHandler.NotFound)
	router.GET("/login", userHandler.LoginPage)
	router.POST("/login", throttle, userHandler.Login)

	auth := middleware.Auth(sessionUsecase, options.CookieName)

	pages := router.Group("/", auth)
	pages.GET("/", videoHandler.Home)
	pages.GET("/trending", videoHandler.Trending)
	pages.GET("/gaming", videoHandler.Gaming)
	pages.GET("/saved-videos", videoHandler.SavedVideos)
	pages.GET("/videos/:id", videoHandler.VideoDetails)
	pages.POST("/videos/:id/save", videoHandler.ToggleSave)
	pages.POST("/videos/:id/like", videoHandler.Like)
	pages.POST("/videos/:id/dislike", videoHandler.Dislike)
	pages.POST("/retry/:screen", videoHandler.Retry)
	pages.POST("/theme", preferenceHandler.ToggleTheme)
	pages.POST("/banner/close", preferenceHandler.CloseBanner)
	pages.POST("/logout", userHandler.Logout)

	api := router.Group("/api")
	api.POST("/login", throttle, userHandler.APILogin)

	authorized := api.Group("", auth)
	authorized.POST("/logout", userHandler.APILogout)
	authorized.GET("/screens/:screen", videoHandler.GetScreen)
	authorized.POST("/screens/:screen/search", videoHandler.SearchScreen)
	authorized.POST("/screens/:screen/retry", videoHandler.RetryScreen)
	authorized.GET("/videos/:id", videoHandler.GetVideo)
	authorized.POST("/videos/:id/save", videoHandler.APIToggleSave)
	authorized.POST("/videos/:id/like", videoHandler.APILike)
	authorized.POST("/videos/:id/dislike", videoHandler.APIDislike)
	authorized.GET("/saved-videos", videoHandler.GetSavedVideos)
	authorized.GET("/theme", preferenceHandler.GetTheme)
	authorized.POST("/theme/toggle", preferenceHandler.APIToggleTheme)
	authorized.GET("/events", eventHandler.Stream)

	router.NoRoute(pageHandler.NoRoute)

	return router
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg, true
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg, true
}
