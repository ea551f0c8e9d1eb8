package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nxt-watch/domain/model"
	"nxt-watch/interfaces/middleware"
	"nxt-watch/usecase"
)

type IPageHandler interface {
	NotFound(ctx *gin.Context)
	NoRoute(ctx *gin.Context)
	Healthz(ctx *gin.Context)
}

type PageHandler struct {
	sessions   usecase.ISessionUseCase
	library    usecase.ILibraryUseCase
	cookieName string
}

func NewPageHandler(sessions usecase.ISessionUseCase, library usecase.ILibraryUseCase, cookieName string) IPageHandler {
	return &PageHandler{sessions: sessions, library: library, cookieName: cookieName}
}

// NotFound handles GET /not-found. The page is public but follows the session theme when there is one.
func (h *PageHandler) NotFound(ctx *gin.Context) {
	var theme model.Theme
	if session, ok := h.sessions.Resolve(middleware.Token(ctx, h.cookieName)); ok {
		if state, err := h.library.State(ctx.Request.Context(), session); err == nil {
			theme = state.Theme
		}
	}
	ctx.HTML(http.StatusNotFound, "not_found.html", Page{Title: "Not Found", Theme: theme})
}

// NoRoute sends unknown pages to /not-found; unknown API paths get a JSON 404
func (h *PageHandler) NoRoute(ctx *gin.Context) {
	if middleware.IsAPI(ctx) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
		return
	}
	ctx.Redirect(http.StatusFound, "/not-found")
}

func (h *PageHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
