package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gin-gonic/gin"
)

// ScreenEvent is the SSE payload sent whenever one of a session's screens changes status
type ScreenEvent struct {
	Type   string `json:"type"`
	Screen string `json:"screen"`
	Status string `json:"status"`
	View   string `json:"view"`
	Params string `json:"params,omitempty"`
	Seq    uint64 `json:"seq"`
}

// Hub maintains per-session subscribers listening for screen events
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[chan ScreenEvent]struct{}
}

func NewScreenHub() *Hub {
	return &Hub{sessions: make(map[string]map[chan ScreenEvent]struct{})}
}

// Serve streams the events of session key until the client goes away
func (h *Hub) Serve(c *gin.Context, key string) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan ScreenEvent, 16)
	h.addSubscriber(key, ch)
	defer h.removeSubscriber(key, ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	c.Writer.Flush()

	for {
		select {
		case evt := <-ch:
			data, _ := json.Marshal(evt)
			_, _ = c.Writer.Write([]byte("event: " + evt.Type + "\n"))
			_, _ = c.Writer.Write([]byte("data: "))
			_, _ = c.Writer.Write(data)
			_, _ = c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}

// Subscribers returns how many streams are open for key
func (h *Hub) Subscribers(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[key])
}

func (h *Hub) addSubscriber(key string, ch chan ScreenEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[key] == nil {
		h.sessions[key] = make(map[chan ScreenEvent]struct{})
	}
	h.sessions[key][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(key string, ch chan ScreenEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.sessions[key]; subs != nil {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.sessions, key)
		}
	}
}

// Broadcast sends evt to every stream of key. Slow subscribers miss events rather than block.
func (h *Hub) Broadcast(key string, evt ScreenEvent) {
	if evt.Type == "" {
		evt.Type = "screen_status"
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.sessions[key] {
		select {
		case ch <- evt:
		default:
		}
	}
}
