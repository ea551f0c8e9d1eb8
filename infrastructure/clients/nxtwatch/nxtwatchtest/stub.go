// Package nxtwatchtest provides an in-process stand-in for the remote video API.
package nxtwatchtest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"nxt-watch/domain/dto"
)

const (
	Username = "rahul"
	Password = "rahul@2021"
	Token    = "abc123"
)

// Request is one request the stub received
type Request struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
}

// Stub serves the remote API endpoints from canned data
type Stub struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
	videos   []dto.ResVideo
	details  map[string]dto.ResVideoDetail
	fail     map[string]int
	hold     map[string]chan struct{}
}

// NewStub starts a stub with one known user (rahul / rahul@2021 -> abc123)
func NewStub() *Stub {
	gin.SetMode(gin.TestMode)
	s := &Stub{
		details: make(map[string]dto.ResVideoDetail),
		fail:    make(map[string]int),
		hold:    make(map[string]chan struct{}),
	}
	router := gin.New()
	router.Use(s.record)
	router.POST("/login", s.login)
	authed := router.Group("/videos", s.auth)
	authed.GET("/all", s.all)
	authed.GET("/trending", s.list)
	authed.GET("/gaming", s.list)
	authed.GET("/:id", s.detail)
	s.Server = httptest.NewServer(router)
	return s
}

// SetVideos replaces the video list every list endpoint serves
func (s *Stub) SetVideos(videos ...dto.ResVideo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.videos = videos
}

// SetDetail registers the detail payload for a video id
func (s *Stub) SetDetail(detail dto.ResVideoDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details[detail.ID] = detail
}

// FailPath makes requests to path answer with status; 0 clears it
func (s *Stub) FailPath(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, path)
		return
	}
	s.fail[path] = status
}

// Hold blocks requests whose search term equals search until the returned func is called
func (s *Stub) Hold(search string) func() {
	ch := make(chan struct{})
	s.mu.Lock()
	s.hold[search] = ch
	s.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Requests returns the requests received so far
func (s *Stub) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// RequestsTo returns the requests received for path
func (s *Stub) RequestsTo(path string) []Request {
	out := []Request{}
	for _, r := range s.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Stub) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		RawQuery:      c.Request.URL.RawQuery,
		Authorization: c.GetHeader("Authorization"),
	})
	status := s.fail[c.Request.URL.Path]
	s.mu.Unlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, dto.ResLogin{StatusCode: status, ErrorMsg: http.StatusText(status)})
		return
	}
	c.Next()
}

func (s *Stub) login(c *gin.Context) {
	var req dto.ReqLogin
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ResLogin{StatusCode: http.StatusBadRequest, ErrorMsg: "Invalid request"})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, dto.ResLogin{StatusCode: http.StatusBadRequest, ErrorMsg: "Username or password is invalid"})
		return
	}
	if req.Username != Username || req.Password != Password {
		c.JSON(http.StatusBadRequest, dto.ResLogin{StatusCode: http.StatusBadRequest, ErrorMsg: "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, dto.ResLogin{JwtToken: Token})
}

func (s *Stub) auth(c *gin.Context) {
	if c.GetHeader("Authorization") != "Bearer "+Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ResLogin{StatusCode: http.StatusUnauthorized, ErrorMsg: "Invalid JWT Token"})
		return
	}
	c.Next()
}

func (s *Stub) all(c *gin.Context) {
	search := c.Query("search")
	s.mu.Lock()
	ch := s.hold[search]
	s.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-c.Request.Context().Done():
			return
		}
	}

	s.mu.Lock()
	out := []dto.ResVideo{}
	for _, v := range s.videos {
		if strings.Contains(strings.ToLower(v.Title), strings.ToLower(search)) {
			out = append(out, v)
		}
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, dto.ResVideos{Videos: out, Total: len(out)})
}

func (s *Stub) list(c *gin.Context) {
	s.mu.Lock()
	out := append([]dto.ResVideo{}, s.videos...)
	s.mu.Unlock()
	c.JSON(http.StatusOK, dto.ResVideos{Videos: out, Total: len(out)})
}

func (s *Stub) detail(c *gin.Context) {
	s.mu.Lock()
	d, ok := s.details[c.Param("id")]
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, dto.ResLogin{StatusCode: http.StatusNotFound, ErrorMsg: "Video not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ResVideoDetails{VideoDetails: &d})
}

// Video builds a list payload entry
func Video(id, title string) dto.ResVideo {
	return dto.ResVideo{
		ID:           id,
		Title:        title,
		ThumbnailURL: "https://assets.example/" + id + ".png",
		PublishedAt:  "Apr 19, 2019",
		ViewCount:    "1.4K",
		Channel:      &dto.ResChannel{Name: "Channel " + id, ProfileImageURL: "https://assets.example/" + id + "-channel.png"},
	}
}

// Detail builds a detail payload for id
func Detail(id, title string) dto.ResVideoDetail {
	v := Video(id, title)
	v.Channel.SubscriberCount = "1M"
	return dto.ResVideoDetail{
		ResVideo:    v,
		Description: "Description of " + title,
		VideoURL:    "https://www.youtube.com/watch?v=" + id,
	}
}
