package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nxt-watch/domain/dto"
	"nxt-watch/domain/model"
	"nxt-watch/infrastructure/logger"
	"nxt-watch/interfaces/middleware"
	"nxt-watch/usecase"
)

const (
	ErrorUnmarshal = "Error while unmarshal"
)

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

type IUserHandler interface {
	LoginPage(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	APILogin(c *gin.Context)
	APILogout(c *gin.Context)
}

type UserHandler struct {
	sessionUsecase usecase.ISessionUseCase
	cookie         CookieConfig
}

func NewUserHandler(sessionUsecase usecase.ISessionUseCase, cookie CookieConfig) IUserHandler {
	return &UserHandler{sessionUsecase: sessionUsecase, cookie: cookie}
}

// LoginPage handles GET /login. A visitor who already has a session goes straight home.
func (userHandler *UserHandler) LoginPage(c *gin.Context) {
	if _, ok := userHandler.sessionUsecase.Resolve(middleware.Token(c, userHandler.cookie.Name)); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", Page{Title: "Login"})
}

// Login handles the login form
func (userHandler *UserHandler) Login(c *gin.Context) {
	var req model.ReqLogin
	if err := c.ShouldBind(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.HTML(http.StatusBadRequest, "login.html", Page{
			Title:    "Login",
			Username: req.Username,
			Error:    "Username and password are required",
		})
		return
	}

	session, err := userHandler.sessionUsecase.Login(c.Request.Context(), req)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Login failed")
		c.HTML(loginStatus(err), "login.html", Page{
			Title:    "Login",
			Username: req.Username,
			Error:    model.UserMessage(err),
		})
		return
	}
	userHandler.setCookie(c, session.Token)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles POST /logout
func (userHandler *UserHandler) Logout(c *gin.Context) {
	if session, ok := middleware.Session(c); ok {
		if err := userHandler.sessionUsecase.Logout(c.Request.Context(), session); err != nil {
			logger.GetLogger().WithField("error", err).Error("Logout failed")
		}
	}
	userHandler.clearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

// APILogin handles POST /api/login. The response mirrors the remote API: jwt_token or error_msg.
func (userHandler *UserHandler) APILogin(c *gin.Context) {
	var req model.ReqLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.GetLogger().WithField("error", err).Error(ErrorUnmarshal)
		c.JSON(http.StatusBadRequest, dto.ResLogin{
			StatusCode: http.StatusBadRequest,
			ErrorMsg:   "Username and password are required",
		})
		return
	}

	session, err := userHandler.sessionUsecase.Login(c.Request.Context(), req)
	if err != nil {
		status := loginStatus(err)
		c.JSON(status, dto.ResLogin{StatusCode: status, ErrorMsg: model.UserMessage(err)})
		return
	}
	userHandler.setCookie(c, session.Token)
	c.JSON(http.StatusOK, dto.ResLogin{JwtToken: session.Token})
}

// APILogout handles POST /api/logout
func (userHandler *UserHandler) APILogout(c *gin.Context) {
	session, _ := middleware.Session(c)
	if err := userHandler.sessionUsecase.Logout(c.Request.Context(), session); err != nil {
		failWith(c, http.StatusInternalServerError, err)
		return
	}
	userHandler.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (userHandler *UserHandler) setCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(userHandler.cookie.Name, token, int(userHandler.cookie.MaxAge.Seconds()), "/", "", userHandler.cookie.Secure, true)
}

func (userHandler *UserHandler) clearCookie(c *gin.Context) {
	c.SetCookie(userHandler.cookie.Name, "", -1, "/", "", userHandler.cookie.Secure, true)
}

func loginStatus(err error) int {
	var authErr *model.AuthError
	if errors.As(err, &authErr) {
		if authErr.StatusCode >= 400 && authErr.StatusCode < 500 {
			return authErr.StatusCode
		}
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}
