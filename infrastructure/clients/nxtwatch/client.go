package nxtwatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"nxt-watch/domain/dto"
	"nxt-watch/domain/model"
	"nxt-watch/domain/repository"
	"nxt-watch/infrastructure/logger"
)

const maxBodyBytes = 4 << 20

// Client talks to the remote video API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config represents remote API client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client, mostly for tests
	HTTPClient *http.Client
}

// NewClient creates a new remote API client
func NewClient(config Config) (repository.IVideoAPI, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("api base url is required")
	}
	if _, err := url.Parse(config.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid api base url %q: %w", config.BaseURL, err)
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: httpClient,
	}, nil
}

// Login handles POST /login
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(dto.ReqLogin{Username: username, Password: password})
	if err != nil {
		return "", fmt.Errorf("encode login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, raw, err := c.do(req)
	if err != nil {
		return "", err
	}

	var res dto.ResLogin
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("%w: decode login response: %v", model.ErrNetwork, err)
	}
	if !isSuccess(status) {
		return "", &model.AuthError{StatusCode: status, Message: res.ErrorMsg}
	}
	if res.JwtToken == "" {
		return "", fmt.Errorf("%w: login response without jwt_token", model.ErrNetwork)
	}
	return res.JwtToken, nil
}

// GetVideos handles GET /videos/all?search=<term>
func (c *Client) GetVideos(ctx context.Context, token, search string) ([]model.Video, error) {
	values, err := query.Values(dto.ReqVideoList{Search: search})
	if err != nil {
		return nil, fmt.Errorf("encode video query: %w", err)
	}
	var res dto.ResVideos
	if err := c.getJSON(ctx, token, "/videos/all?"+values.Encode(), &res); err != nil {
		return nil, err
	}
	return res.ToModel(), nil
}

// GetTrendingVideos handles GET /videos/trending
func (c *Client) GetTrendingVideos(ctx context.Context, token string) ([]model.Video, error) {
	var res dto.ResVideos
	if err := c.getJSON(ctx, token, "/videos/trending", &res); err != nil {
		return nil, err
	}
	return res.ToModel(), nil
}

// GetGamingVideos handles GET /videos/gaming
func (c *Client) GetGamingVideos(ctx context.Context, token string) ([]model.Video, error) {
	var res dto.ResVideos
	if err := c.getJSON(ctx, token, "/videos/gaming", &res); err != nil {
		return nil, err
	}
	return res.ToModel(), nil
}

// GetVideoDetails handles GET /videos/:id
func (c *Client) GetVideoDetails(ctx context.Context, token, videoID string) (*model.VideoDetail, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video id is required")
	}
	var res dto.ResVideoDetails
	if err := c.getJSON(ctx, token, "/videos/"+url.PathEscape(videoID), &res); err != nil {
		return nil, err
	}
	if res.VideoDetails == nil {
		return nil, fmt.Errorf("%w: response without video_details", model.ErrNetwork)
	}
	detail := res.VideoDetails.ToModel()
	return &detail, nil
}

func (c *Client) getJSON(ctx context.Context, token, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	status, raw, err := c.do(req)
	if err != nil {
		return err
	}
	if !isSuccess(status) {
		var res dto.ResLogin
		_ = json.Unmarshal(raw, &res)
		return &model.HTTPError{StatusCode: status, Message: res.ErrorMsg}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", model.ErrNetwork, path, err)
	}
	return nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"method": req.Method,
			"path":   req.URL.Path,
			"error":  err,
		}).Warn("Remote API request failed")
		return 0, nil, fmt.Errorf("%w: %s %s: %v", model.ErrNetwork, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: read body: %v", model.ErrNetwork, err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"method":   req.Method,
		"path":     req.URL.Path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	}).Debug("Remote API request completed")
	return resp.StatusCode, raw, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
