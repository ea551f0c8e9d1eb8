package http

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nxt-watch/domain/model"
	"nxt-watch/infrastructure/logger"
	"nxt-watch/interfaces/middleware"
	"nxt-watch/usecase"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the page templates. Each page is looked up by file name, e.g. "home.html".
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

// Page is what every template renders from
type Page struct {
	Title       string
	Path        string
	Active      string
	Theme       model.Theme
	Username    string
	Error       string
	Screen      usecase.ScreenState
	Saved       bool
	Reaction    model.Reaction
	SavedVideos []model.VideoDetail
	ShowBanner  bool
}

func newPage(ctx *gin.Context, title, active string, state *model.UserState) Page {
	page := Page{Title: title, Path: ctx.Request.URL.Path, Active: active}
	if session, ok := middleware.Session(ctx); ok {
		page.Username = session.Username
	}
	if state != nil {
		page.Theme = state.Theme
	}
	return page
}

// returnPath picks where a POST form sends the browser next. Only local paths are accepted.
func returnPath(ctx *gin.Context, fallback string) string {
	path := ctx.PostForm("return")
	if path == "" || !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return fallback
	}
	return path
}

func seeOther(ctx *gin.Context, path string) {
	ctx.Redirect(http.StatusSeeOther, path)
}

// failWith reports an error that stopped a request before any screen could render it
func failWith(ctx *gin.Context, status int, err error) {
	logger.GetLogger().WithFields(map[string]interface{}{
		"path":  ctx.Request.URL.Path,
		"error": err,
	}).Error("Request failed")
	_ = ctx.Error(err)
	if middleware.IsAPI(ctx) {
		ctx.AbortWithStatusJSON(status, gin.H{
			"error":   http.StatusText(status),
			"message": model.UserMessage(err),
		})
		return
	}
	ctx.String(status, model.UserMessage(err))
	ctx.Abort()
}
