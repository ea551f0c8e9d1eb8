package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nxt-watch/domain/dto"
	"nxt-watch/domain/model"
	"nxt-watch/interfaces/middleware"
	"nxt-watch/usecase"
)

type IVideoHandler interface {
	// Pages
	Home(ctx *gin.Context)
	Trending(ctx *gin.Context)
	Gaming(ctx *gin.Context)
	VideoDetails(ctx *gin.Context)
	SavedVideos(ctx *gin.Context)
	Retry(ctx *gin.Context)
	ToggleSave(ctx *gin.Context)
	Like(ctx *gin.Context)
	Dislike(ctx *gin.Context)

	// JSON API
	GetScreen(ctx *gin.Context)
	SearchScreen(ctx *gin.Context)
	RetryScreen(ctx *gin.Context)
	GetVideo(ctx *gin.Context)
	APIToggleSave(ctx *gin.Context)
	APILike(ctx *gin.Context)
	APIDislike(ctx *gin.Context)
	GetSavedVideos(ctx *gin.Context)
}

type VideoHandler struct {
	screens *usecase.ScreenRegistry
	library usecase.ILibraryUseCase
}

func NewVideoHandler(screens *usecase.ScreenRegistry, library usecase.ILibraryUseCase) IVideoHandler {
	return &VideoHandler{screens: screens, library: library}
}

var screenPages = map[string]struct {
	template string
	title    string
	active   string
}{
	usecase.ScreenHome:     {"home.html", "Home", "home"},
	usecase.ScreenTrending: {"feed.html", "Trending", "trending"},
	usecase.ScreenGaming:   {"feed.html", "Gaming", "gaming"},
	usecase.ScreenVideo:    {"video.html", "Video", ""},
}

// Home handles GET /?search=
func (h *VideoHandler) Home(ctx *gin.Context) {
	h.loadPage(ctx, usecase.ScreenHome, strings.TrimSpace(ctx.Query("search")))
}

// Trending handles GET /trending
func (h *VideoHandler) Trending(ctx *gin.Context) {
	h.loadPage(ctx, usecase.ScreenTrending, "")
}

// Gaming handles GET /gaming
func (h *VideoHandler) Gaming(ctx *gin.Context) {
	h.loadPage(ctx, usecase.ScreenGaming, "")
}

// VideoDetails handles GET /videos/:id
func (h *VideoHandler) VideoDetails(ctx *gin.Context) {
	h.loadPage(ctx, usecase.ScreenVideo, ctx.Param("id"))
}

// Retry handles POST /retry/:screen and renders the screen with the retried request
func (h *VideoHandler) Retry(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	state, err := h.screens.For(session).Retry(ctx.Request.Context(), ctx.Param("screen"))
	if err != nil {
		ctx.Redirect(http.StatusFound, "/not-found")
		return
	}
	h.renderScreen(ctx, session, state)
}

// SavedVideos handles GET /saved-videos
func (h *VideoHandler) SavedVideos(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	userState, err := h.library.State(ctx.Request.Context(), session)
	if err != nil {
		failWith(ctx, http.StatusInternalServerError, err)
		return
	}
	page := newPage(ctx, "Saved Videos", "saved", userState)
	page.SavedVideos = userState.SavedVideos.List()
	ctx.HTML(http.StatusOK, "saved.html", page)
}

// ToggleSave handles POST /videos/:id/save
func (h *VideoHandler) ToggleSave(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	videoID := ctx.Param("id")
	if _, _, err := h.library.ToggleSave(ctx.Request.Context(), session, videoID); err != nil {
		failWith(ctx, statusFor(err), err)
		return
	}
	seeOther(ctx, "/videos/"+videoID)
}

// Like handles POST /videos/:id/like
func (h *VideoHandler) Like(ctx *gin.Context) {
	h.react(ctx, model.ReactionLike)
}

// Dislike handles POST /videos/:id/dislike
func (h *VideoHandler) Dislike(ctx *gin.Context) {
	h.react(ctx, model.ReactionDislike)
}

func (h *VideoHandler) react(ctx *gin.Context, reaction model.Reaction) {
	session, _ := middleware.Session(ctx)
	videoID := ctx.Param("id")
	if _, err := h.library.React(ctx.Request.Context(), session, videoID, reaction); err != nil {
		failWith(ctx, http.StatusInternalServerError, err)
		return
	}
	seeOther(ctx, "/videos/"+videoID)
}

func (h *VideoHandler) loadPage(ctx *gin.Context, screen, params string) {
	session, _ := middleware.Session(ctx)
	state, err := h.screens.For(session).Load(ctx.Request.Context(), screen, params)
	if err != nil {
		failWith(ctx, http.StatusNotFound, err)
		return
	}
	h.renderScreen(ctx, session, state)
}

func (h *VideoHandler) renderScreen(ctx *gin.Context, session model.Session, state usecase.ScreenState) {
	userState, err := h.library.State(ctx.Request.Context(), session)
	if err != nil {
		failWith(ctx, http.StatusInternalServerError, err)
		return
	}
	meta := screenPages[state.Name]
	page := newPage(ctx, meta.title, meta.active, userState)
	page.Screen = state
	switch state.Name {
	case usecase.ScreenHome:
		page.ShowBanner = !userState.BannerDismissed
	case usecase.ScreenVideo:
		if state.Video != nil {
			page.Title = state.Video.Title
			page.Saved = userState.SavedVideos.IsSaved(state.Video.ID)
			page.Reaction = userState.Reaction(state.Video.ID)
		}
	}
	ctx.HTML(http.StatusOK, meta.template, page)
}

// GetScreen handles GET /api/screens/:screen. A screen that never loaded is loaded first,
// with ?search= for home or ?id= for the video screen.
func (h *VideoHandler) GetScreen(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	set := h.screens.For(session)
	name := ctx.Param("screen")
	state, err := set.State(name)
	if err != nil {
		failWith(ctx, http.StatusNotFound, err)
		return
	}
	if state.Status == model.RequestStatusInitial {
		params := ctx.Query("search")
		if name == usecase.ScreenVideo {
			params = ctx.Query("id")
		}
		state, _ = set.Load(ctx.Request.Context(), name, params)
	}
	h.screenJSON(ctx, session, state)
}

// SearchScreen handles POST /api/screens/:screen/search
func (h *VideoHandler) SearchScreen(ctx *gin.Context) {
	var req dto.ReqSearch
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   ErrorUnmarshal,
			"message": err.Error(),
		})
		return
	}
	session, _ := middleware.Session(ctx)
	state, err := h.screens.For(session).Load(ctx.Request.Context(), ctx.Param("screen"), strings.TrimSpace(req.Search))
	if err != nil {
		failWith(ctx, http.StatusNotFound, err)
		return
	}
	h.screenJSON(ctx, session, state)
}

// RetryScreen handles POST /api/screens/:screen/retry
func (h *VideoHandler) RetryScreen(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	state, err := h.screens.For(session).Retry(ctx.Request.Context(), ctx.Param("screen"))
	if err != nil {
		failWith(ctx, http.StatusNotFound, err)
		return
	}
	h.screenJSON(ctx, session, state)
}

// GetVideo handles GET /api/videos/:id
func (h *VideoHandler) GetVideo(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	state, err := h.screens.For(session).Load(ctx.Request.Context(), usecase.ScreenVideo, ctx.Param("id"))
	if err != nil {
		failWith(ctx, http.StatusNotFound, err)
		return
	}
	h.screenJSON(ctx, session, state)
}

// APIToggleSave handles POST /api/videos/:id/save
func (h *VideoHandler) APIToggleSave(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	videoID := ctx.Param("id")
	saved, count, err := h.library.ToggleSave(ctx.Request.Context(), session, videoID)
	if err != nil {
		failWith(ctx, statusFor(err), err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ResToggleSave{VideoID: videoID, Saved: saved, Count: count})
}

// APILike handles POST /api/videos/:id/like
func (h *VideoHandler) APILike(ctx *gin.Context) {
	h.reactJSON(ctx, model.ReactionLike)
}

// APIDislike handles POST /api/videos/:id/dislike
func (h *VideoHandler) APIDislike(ctx *gin.Context) {
	h.reactJSON(ctx, model.ReactionDislike)
}

func (h *VideoHandler) reactJSON(ctx *gin.Context, reaction model.Reaction) {
	session, _ := middleware.Session(ctx)
	videoID := ctx.Param("id")
	result, err := h.library.React(ctx.Request.Context(), session, videoID, reaction)
	if err != nil {
		failWith(ctx, http.StatusInternalServerError, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ResReaction{
		VideoID:  videoID,
		Reaction: result,
		Liked:    result.Liked(),
		Disliked: result.Disliked(),
	})
}

// GetSavedVideos handles GET /api/saved-videos
func (h *VideoHandler) GetSavedVideos(ctx *gin.Context) {
	session, _ := middleware.Session(ctx)
	userState, err := h.library.State(ctx.Request.Context(), session)
	if err != nil {
		failWith(ctx, http.StatusInternalServerError, err)
		return
	}
	res := dto.ResSavedVideos{View: model.ViewList, Videos: userState.SavedVideos.List()}
	if len(res.Videos) == 0 {
		res.View = model.ViewEmpty
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *VideoHandler) screenJSON(ctx *gin.Context, session model.Session, state usecase.ScreenState) {
	res := dto.ResScreen{
		Screen: state.Name,
		Status: state.Status,
		View:   state.View,
		Search: state.Params,
		Videos: state.Videos,
		Video:  state.Video,
	}
	if state.Err != nil {
		res.Error = model.UserMessage(state.Err)
	}
	if state.Video != nil {
		userState, err := h.library.State(ctx.Request.Context(), session)
		if err != nil {
			failWith(ctx, http.StatusInternalServerError, err)
			return
		}
		saved := userState.SavedVideos.IsSaved(state.Video.ID)
		res.Saved = &saved
		res.Reaction = userState.Reaction(state.Video.ID)
	}
	ctx.JSON(http.StatusOK, res)
}

// statusFor maps a remote API failure onto the status returned to the caller
func statusFor(err error) int {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
