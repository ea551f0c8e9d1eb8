package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nxt-watch/domain/dto"
	"nxt-watch/interfaces/middleware"
	"nxt-watch/usecase"
)

type IPreferenceHandler interface {
	ToggleTheme(ctx *gin.Context)
	CloseBanner(ctx *gin.Context)
	GetTheme(ctx *gin.Context)
	APIToggleTheme(ctx *gin.Context)
}

type PreferenceHandler struct {
	library usecase.ILibraryUseCase
}

func NewPreferenceHandler(library usecase.ILibraryUseCase) IPreferenceHandler {
	return &PreferenceHandler{library: library}
}

// ToggleTheme handles POST /theme and returns the browser to the page it came from
func (h *PreferenceHandler) ToggleTheme(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	if _, err := h.library.ToggleTheme(ctx.Request.Context(), session); err != nil {
		failWith(ctx, http.StatusInternalServerError, err)
		return
	}
	seeOther(ctx, returnPath(ctx, "/"))
}

// CloseBanner handles POST /banner/close
func (h *PreferenceHandler) CloseBanner(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	if err := h.library.DismissBanner(ctx.Request.Context(), session); err != nil {
		failWith(ctx, http.StatusInternalServerError, err)
		return
	}
	seeOther(ctx, "/")
}

// GetTheme handles GET /api/theme
func (h *PreferenceHandler) GetTheme(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	state, err := h.library.State(ctx.Request.Context(), session)
	if err != nil {
		failWith(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ResTheme{Dark: state.Theme.Dark, Theme: state.Theme.Name()})
}

// APIToggleTheme handles POST /api/theme/toggle
func (h *PreferenceHandler) APIToggleTheme(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	theme, err := h.library.ToggleTheme(ctx.Request.Context(), session)
	if err != nil {
		failWith(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ResTheme{Dark: theme.Dark, Theme: theme.Name()})
}
