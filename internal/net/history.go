package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"SketchRoom/internal/logging"
	"SketchRoom/internal/state"
)

// HistoryMessage is one recorded creation, in the same double-encoded form
// as a chat envelope.
type HistoryMessage struct {
	Message string `json:"message"`
}

// HistoryResponse is the body served for a room's history.
type HistoryResponse struct {
	Messages []HistoryMessage `json:"messages"`
}

// HistoryPath returns the history endpoint path for room.
func HistoryPath(room string) string {
	return "/rooms/" + url.PathEscape(room) + "/shapes"
}

// HistoryClient fetches prior room shapes over HTTP.
type HistoryClient struct {
	BaseURL string
	HTTP    *http.Client
	log     *zap.SugaredLogger
}

func NewHistoryClient(baseURL string, log *zap.SugaredLogger) *HistoryClient {
	if log == nil {
		log = logging.Log
	}
	return &HistoryClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		log:     log.Named("history"),
	}
}

// Fetch returns the shapes recorded for room in arrival order. Entries that
// fail to decode are skipped.
func (h *HistoryClient) Fetch(ctx context.Context, room string) ([]state.Shape, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+HistoryPath(room), nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch history: status %d", resp.StatusCode)
	}

	var body HistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return DecodeHistory(body, h.log), nil
}

// DecodeHistory decodes every entry, dropping the malformed ones.
func DecodeHistory(body HistoryResponse, log *zap.SugaredLogger) []state.Shape {
	if log == nil {
		log = logging.Log
	}
	out := make([]state.Shape, 0, len(body.Messages))
	for i, m := range body.Messages {
		s, err := ParseShapeMessage(m.Message)
		if err != nil {
			log.Warnw("skipping history entry", "index", i, "error", err)
			continue
		}
		out = append(out, s)
	}
	return out
}
