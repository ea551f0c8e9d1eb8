package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nxt-watch/domain/model"
	"nxt-watch/usecase"
)

const (
	sessionContextKey = "session"
	apiPrefix         = "/api"
)

// Auth admits a request only when it carries a live session token, read from the session
// cookie or an "Authorization: Bearer" header. Page requests without one are sent to /login,
// /api requests get 401.
func Auth(sessions usecase.ISessionUseCase, cookieName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := Token(ctx, cookieName)
		session, ok := sessions.Resolve(token)
		if !ok {
			if token != "" {
				// stale cookie, drop it so the login page does not bounce back
				ctx.SetCookie(cookieName, "", -1, "/", "", false, true)
			}
			Unauthorized(ctx)
			return
		}
		ctx.Set(sessionContextKey, session)
		ctx.Next()
	}
}

// Token returns the session token of the request, or "" when there is none
func Token(ctx *gin.Context, cookieName string) string {
	if cookie, err := ctx.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}
	authorization := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authorization, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// Session returns the session Auth stored on ctx
func Session(ctx *gin.Context) (model.Session, bool) {
	v, ok := ctx.Get(sessionContextKey)
	if !ok {
		return model.Session{}, false
	}
	session, ok := v.(model.Session)
	return session, ok
}

// IsAPI reports whether the request targets the JSON API
func IsAPI(ctx *gin.Context) bool {
	path := ctx.Request.URL.Path
	return path == apiPrefix || strings.HasPrefix(path, apiPrefix+"/")
}

// Unauthorized aborts with 401 for the API and a redirect to /login for pages
func Unauthorized(ctx *gin.Context) {
	if IsAPI(ctx) {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":   "Unauthorized",
			"message": model.ErrUnauthenticated.Error(),
		})
		return
	}
	ctx.Redirect(http.StatusFound, "/login")
	ctx.Abort()
}
