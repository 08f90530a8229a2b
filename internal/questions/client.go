package questions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"questhire/pkg/domain"
)

// Client fetches question pools from the external question source, one
// endpoint per topic.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError represents a question source error response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("question source: %s (status %d)", e.Message, e.Status)
}

// NewClient constructs a question source client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// poolQuestion decodes only the fields the API layer is allowed to see.
// Upstream answer keys and explanations never survive decoding.
type poolQuestion struct {
	ID       any      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// FetchPool returns the full question pool behind a topic endpoint.
// A single-object response is normalized to a one-element pool.
func (c *Client) FetchPool(ctx context.Context, endpoint string) ([]domain.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	raw, err := normalizePool(body)
	if err != nil {
		return nil, err
	}

	pool := make([]domain.Question, 0, len(raw))
	for _, q := range raw {
		pool = append(pool, domain.Question{
			ID:       stringID(q.ID),
			Question: q.Question,
			Options:  q.Options,
		})
	}
	return pool, nil
}

func normalizePool(body []byte) ([]poolQuestion, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var pool []poolQuestion
		if err := json.Unmarshal(trimmed, &pool); err != nil {
			return nil, fmt.Errorf("decode question pool: %w", err)
		}
		return pool, nil
	}
	var single poolQuestion
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("decode question: %w", err)
	}
	return []poolQuestion{single}, nil
}

func stringID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
