package server_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nxt-watch/domain/dto"
	"nxt-watch/domain/model"
	"nxt-watch/infrastructure/clients/nxtwatch"
	"nxt-watch/infrastructure/clients/nxtwatch/nxtwatchtest"
	"nxt-watch/infrastructure/persistence"
	"nxt-watch/infrastructure/realtime"
	httpHandler "nxt-watch/interfaces/http"
	"nxt-watch/server"
	"nxt-watch/usecase"
)

const cookieName = "jwt_token"

type app struct {
	router *gin.Engine
	stub   *nxtwatchtest.Stub
}

func newApp(t *testing.T) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	stub := nxtwatchtest.NewStub()
	t.Cleanup(stub.Close)
	stub.SetVideos(
		nxtwatchtest.Video("v1", "Learn Go"),
		nxtwatchtest.Video("v2", "React Basics"),
	)
	stub.SetDetail(nxtwatchtest.Detail("v1", "Learn Go"))

	api, err := nxtwatch.NewClient(nxtwatch.Config{BaseURL: stub.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	state := persistence.NewMemoryStateRepository(0)
	hub := realtime.NewScreenHub()
	screens := usecase.NewScreenRegistry(api, 0).WithPublisher(httpHandler.ScreenPublisher(hub))
	sessions := usecase.NewSessionUseCase(api, state, screens)
	library := usecase.NewLibraryUseCase(state, api, screens)

	router := server.InitiateRouter(
		httpHandler.NewUserHandler(sessions, httpHandler.CookieConfig{Name: cookieName, MaxAge: 30 * 24 * time.Hour}),
		httpHandler.NewVideoHandler(screens, library),
		httpHandler.NewPreferenceHandler(library),
		httpHandler.NewPageHandler(sessions, library, cookieName),
		httpHandler.NewEventHandler(hub),
		sessions,
		server.Options{CookieName: cookieName, AllowOrigins: []string{"http://localhost:3000"}},
	)
	return &app{router: router, stub: stub}
}

func (a *app) do(method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		if strings.HasPrefix(body, "{") {
			req.Header.Set("Content-Type", "application/json")
		} else {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	return nil
}

func TestLogin_StoresTokenAndGuardAdmitsHome(t *testing.T) {
	a := newApp(t)
	form := url.Values{"username": {"rahul"}, "password": {"rahul@2021"}}

	w := a.do(http.MethodPost, "/login", form.Encode(), "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, "abc123", cookie.Value)
	assert.Equal(t, 30*24*60*60, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)

	w = a.do(http.MethodGet, "/", "", cookie.Value)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Learn Go")
	assert.Contains(t, w.Body.String(), "React Basics")

	requests := a.stub.RequestsTo("/videos/all")
	require.Len(t, requests, 1)
	assert.Equal(t, "Bearer abc123", requests[0].Authorization)
}

func TestLogin_ShowsServerMessage(t *testing.T) {
	a := newApp(t)
	form := url.Values{"username": {"rahul"}, "password": {"wrong"}}

	w := a.do(http.MethodPost, "/login", form.Encode(), "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "* Invalid credentials")
	assert.Nil(t, sessionCookie(w))
}

func TestLogin_PageRedirectsWhenLoggedIn(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/login", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "USERNAME")

	w = a.do(http.MethodGet, "/login", "", "abc123")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestAPILogin(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodPost, "/api/login", `{"username":"rahul","password":"rahul@2021"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc123", decode[dto.ResLogin](t, w).JwtToken)

	w = a.do(http.MethodPost, "/api/login", `{"username":"rahul","password":"nope"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decode[dto.ResLogin](t, w).ErrorMsg)
}

func TestGuard_RedirectsWithoutSession(t *testing.T) {
	a := newApp(t)
	for _, path := range []string{"/", "/trending", "/gaming", "/saved-videos", "/videos/v1"} {
		w := a.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}

	w := a.do(http.MethodGet, "/api/screens/home", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, a.stub.RequestsTo("/videos/all"))
}

func TestHome_SearchWithNoResults(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/?search=zzz", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No search results found")
	assert.NotContains(t, w.Body.String(), "Learn Go")

	requests := a.stub.RequestsTo("/videos/all")
	require.Len(t, requests, 1)
	assert.Equal(t, "search=zzz", requests[0].RawQuery)
}

func TestHome_FailureThenRetrySendsSameRequest(t *testing.T) {
	a := newApp(t)
	a.stub.FailPath("/videos/all", http.StatusInternalServerError)

	w := a.do(http.MethodGet, "/?search=go", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Oops! Something Went Wrong")
	assert.Contains(t, w.Body.String(), `action="/retry/home"`)

	a.stub.FailPath("/videos/all", 0)
	w = a.do(http.MethodPost, "/retry/home", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Learn Go")
	assert.NotContains(t, w.Body.String(), "React Basics")

	requests := a.stub.RequestsTo("/videos/all")
	require.Len(t, requests, 2)
	assert.Equal(t, requests[0].RawQuery, requests[1].RawQuery)
	assert.Equal(t, requests[0].Authorization, requests[1].Authorization)
}

func TestTrendingAndGaming(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/trending", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Trending")
	assert.Contains(t, w.Body.String(), "Learn Go")

	a.stub.FailPath("/videos/gaming", http.StatusServiceUnavailable)
	w = a.do(http.MethodGet, "/gaming", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/retry/gaming"`)
}

func TestVideoDetail_SaveToggle(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/videos/v1", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Description of Learn Go")
	assert.Contains(t, w.Body.String(), ">Save</button>")

	w = a.do(http.MethodPost, "/videos/v1/save", "", "abc123")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/videos/v1", w.Header().Get("Location"))

	w = a.do(http.MethodGet, "/videos/v1", "", "abc123")
	assert.Contains(t, w.Body.String(), ">Saved</button>")

	w = a.do(http.MethodGet, "/saved-videos", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Learn Go")

	a.do(http.MethodPost, "/videos/v1/save", "", "abc123")
	w = a.do(http.MethodGet, "/saved-videos", "", "abc123")
	assert.Contains(t, w.Body.String(), "No saved videos found")
}

func TestVideoDetail_UnknownVideoFails(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/videos/missing", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Oops! Something Went Wrong")

	w = a.do(http.MethodPost, "/api/videos/missing/save", "", "abc123")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_ScreensSearchAndRetry(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/api/screens/home?search=react", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[dto.ResScreen](t, w)
	assert.Equal(t, model.RequestStatusSuccess, res.Status)
	assert.Equal(t, model.ViewList, res.View)
	require.Len(t, res.Videos, 1)
	assert.Equal(t, "v2", res.Videos[0].ID)

	// already loaded, no new fetch
	a.do(http.MethodGet, "/api/screens/home", "", "abc123")
	assert.Len(t, a.stub.RequestsTo("/videos/all"), 1)

	w = a.do(http.MethodPost, "/api/screens/home/search", `{"search":"nothing"}`, "abc123")
	res = decode[dto.ResScreen](t, w)
	assert.Equal(t, model.ViewEmpty, res.View)
	assert.Equal(t, "nothing", res.Search)

	a.stub.FailPath("/videos/all", http.StatusBadGateway)
	w = a.do(http.MethodPost, "/api/screens/home/retry", "", "abc123")
	res = decode[dto.ResScreen](t, w)
	assert.Equal(t, model.RequestStatusFailure, res.Status)
	assert.Equal(t, model.MsgSomethingWentWrong, res.Error)

	requests := a.stub.RequestsTo("/videos/all")
	require.Len(t, requests, 3)
	assert.Equal(t, "search=nothing", requests[2].RawQuery)

	w = a.do(http.MethodGet, "/api/screens/music", "", "abc123")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_StaleSearchIsDiscarded(t *testing.T) {
	a := newApp(t)
	release := a.stub.Hold("learn")
	defer release()

	var wg sync.WaitGroup
	var slow dto.ResScreen
	wg.Add(1)
	go func() {
		defer wg.Done()
		w := a.do(http.MethodPost, "/api/screens/home/search", `{"search":"learn"}`, "abc123")
		_ = json.Unmarshal(w.Body.Bytes(), &slow)
	}()
	require.Eventually(t, func() bool {
		return len(a.stub.RequestsTo("/videos/all")) == 1
	}, 2*time.Second, 5*time.Millisecond)

	w := a.do(http.MethodPost, "/api/screens/home/search", `{"search":"react"}`, "abc123")
	fast := decode[dto.ResScreen](t, w)
	require.Equal(t, model.ViewList, fast.View)

	release()
	wg.Wait()

	for _, res := range []dto.ResScreen{slow, decode[dto.ResScreen](t, a.do(http.MethodGet, "/api/screens/home", "", "abc123"))} {
		assert.Equal(t, "react", res.Search)
		require.Len(t, res.Videos, 1)
		assert.Equal(t, "v2", res.Videos[0].ID)
	}
}

func TestHome_SupersededPageRendersLatestResult(t *testing.T) {
	a := newApp(t)
	releaseReact := a.stub.Hold("react")
	defer releaseReact()
	releaseLearn := a.stub.Hold("learn")
	defer releaseLearn()

	pages := make(chan string, 2)
	get := func(search string) {
		pages <- a.do(http.MethodGet, "/?search="+search, "", "abc123").Body.String()
	}
	go get("react")
	require.Eventually(t, func() bool {
		return len(a.stub.RequestsTo("/videos/all")) == 1
	}, 2*time.Second, 5*time.Millisecond)
	go get("learn")
	require.Eventually(t, func() bool {
		return len(a.stub.RequestsTo("/videos/all")) == 2
	}, 2*time.Second, 5*time.Millisecond)

	releaseReact()
	releaseLearn()

	for i := 0; i < 2; i++ {
		body := <-pages
		assert.NotContains(t, body, `data-testid="loader"`)
		assert.Contains(t, body, "Learn Go")
		assert.NotContains(t, body, "React Basics")
	}
}

func TestAPI_VideoSaveAndReactions(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/api/videos/v1", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[dto.ResScreen](t, w)
	require.NotNil(t, res.Video)
	assert.Equal(t, "1M", res.Video.Channel.SubscriberCount)
	require.NotNil(t, res.Saved)
	assert.False(t, *res.Saved)

	w = a.do(http.MethodPost, "/api/videos/v1/save", "", "abc123")
	saved := decode[dto.ResToggleSave](t, w)
	assert.True(t, saved.Saved)
	assert.Equal(t, 1, saved.Count)
	// the detail screen already held v1
	assert.Len(t, a.stub.RequestsTo("/videos/v1"), 1)

	list := decode[dto.ResSavedVideos](t, a.do(http.MethodGet, "/api/saved-videos", "", "abc123"))
	assert.Equal(t, model.ViewList, list.View)
	require.Len(t, list.Videos, 1)
	assert.Equal(t, "v1", list.Videos[0].ID)

	reaction := decode[dto.ResReaction](t, a.do(http.MethodPost, "/api/videos/v1/like", "", "abc123"))
	assert.True(t, reaction.Liked)
	reaction = decode[dto.ResReaction](t, a.do(http.MethodPost, "/api/videos/v1/dislike", "", "abc123"))
	assert.False(t, reaction.Liked)
	assert.True(t, reaction.Disliked)

	res = decode[dto.ResScreen](t, a.do(http.MethodGet, "/api/screens/video", "", "abc123"))
	assert.Equal(t, model.ReactionDislike, res.Reaction)
	assert.True(t, *res.Saved)
}

func TestTheme_ToggleTwiceRestores(t *testing.T) {
	a := newApp(t)

	theme := decode[dto.ResTheme](t, a.do(http.MethodGet, "/api/theme", "", "abc123"))
	assert.Equal(t, "light", theme.Theme)

	theme = decode[dto.ResTheme](t, a.do(http.MethodPost, "/api/theme/toggle", "", "abc123"))
	assert.True(t, theme.Dark)

	w := a.do(http.MethodPost, "/theme", url.Values{"return": {"/trending"}}.Encode(), "abc123")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/trending", w.Header().Get("Location"))

	theme = decode[dto.ResTheme](t, a.do(http.MethodGet, "/api/theme", "", "abc123"))
	assert.False(t, theme.Dark)
	assert.Equal(t, "light", theme.Theme)

	w = a.do(http.MethodPost, "/theme", url.Values{"return": {"//evil.example"}}.Encode(), "abc123")
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestBanner_Dismiss(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/", "", "abc123")
	assert.Contains(t, w.Body.String(), `data-testid="banner"`)

	w = a.do(http.MethodPost, "/banner/close", "", "abc123")
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = a.do(http.MethodGet, "/", "", "abc123")
	assert.NotContains(t, w.Body.String(), `data-testid="banner"`)
}

func TestLogout_ClearsCookieAndState(t *testing.T) {
	a := newApp(t)
	a.do(http.MethodPost, "/api/theme/toggle", "", "abc123")

	w := a.do(http.MethodPost, "/logout", "", "abc123")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.MaxAge < 0)

	theme := decode[dto.ResTheme](t, a.do(http.MethodGet, "/api/theme", "", "abc123"))
	assert.False(t, theme.Dark)
}

func TestNotFound(t *testing.T) {
	a := newApp(t)

	w := a.do(http.MethodGet, "/does-not-exist", "", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/not-found", w.Header().Get("Location"))

	w = a.do(http.MethodGet, "/not-found", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page Not Found")

	w = a.do(http.MethodGet, "/api/nothing", "", "abc123")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	a := newApp(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/theme", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPI_EventsStreamScreenTransitions(t *testing.T) {
	a := newApp(t)
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "abc123"})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ":ok\n", line)

	w := a.do(http.MethodGet, "/trending", "", "abc123")
	require.Equal(t, http.StatusOK, w.Code)

	var events []realtime.ScreenEvent
	for len(events) < 2 {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if data, ok := strings.CutPrefix(strings.TrimSpace(line), "data: "); ok {
			var evt realtime.ScreenEvent
			require.NoError(t, json.Unmarshal([]byte(data), &evt))
			events = append(events, evt)
		}
	}
	assert.Equal(t, "trending", events[0].Screen)
	assert.Equal(t, "IN_PROGRESS", events[0].Status)
	assert.Equal(t, "SUCCESS", events[1].Status)
	assert.Equal(t, "list", events[1].View)
}
