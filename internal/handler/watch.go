package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"repolens/internal/extract"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchWSOutbound struct {
	Type     string            `json:"type"`
	Stage    string            `json:"stage,omitempty"`
	Detail   string            `json:"detail,omitempty"`
	Document *extract.Document `json:"document,omitempty"`
	Message  string            `json:"message,omitempty"`
}

type WatchHandler struct {
	svc *extract.Service
}

func NewWatchHandler(svc *extract.Service) *WatchHandler {
	return &WatchHandler{svc: svc}
}

// HandleWatch streams extraction progress over a websocket. The client
// connects with ?github_url=...&branch=... and receives stage events
// followed by a final document or error frame.
func (h *WatchHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	githubURL := strings.TrimSpace(r.URL.Query().Get("github_url"))
	if githubURL == "" {
		http.Error(w, "github_url is required", http.StatusBadRequest)
		return
	}
	branch := strings.TrimSpace(r.URL.Query().Get("branch"))

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		log.Printf("watch ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	// reader only drains control frames and detects disconnects
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	writeCh := make(chan watchWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(watchWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	progress := func(stage, detail string) {
		pushWatchWS(writeCh, watchWSOutbound{Type: "progress", Stage: stage, Detail: detail})
	}

	doc, err := h.svc.Run(ctx, extract.Request{GitHubURL: githubURL, Branch: branch}, progress)
	if err != nil {
		pushWatchWS(writeCh, watchWSOutbound{Type: "error", Message: err.Error()})
	} else {
		pushWatchWS(writeCh, watchWSOutbound{Type: "result", Document: doc})
	}

	// let the writer drain before tearing down
	time.Sleep(100 * time.Millisecond)
	cancel()
	<-writerDone
}

func pushWatchWS(writeCh chan watchWSOutbound, out watchWSOutbound) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
