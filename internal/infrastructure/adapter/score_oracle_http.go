package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/autofin/credit-engine/internal/domain/port"
	"github.com/autofin/credit-engine/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// HTTPScoreOracle – real score authority client
// ---------------------------------------------------------------------------

// HTTPScoreOracleConfig holds the remote authority's endpoint settings.
// Per-call deadlines come from the caller's context; the gateway owns them.
type HTTPScoreOracleConfig struct {
	// BaseURL is the authority's API root, e.g. https://scores.example.com.
	BaseURL string
	// APIKey authenticates against the authority.
	APIKey string
}

type scorePayload struct {
	Document string `json:"document"`
	Score    int    `json:"score"`
	Model    string `json:"model,omitempty"`
}

// HTTPScoreOracle implements port.ScoreOracle against an HTTP scoring
// authority. Network errors, timeouts and 5xx responses surface as
// port.ErrOracleUnavailable so the resilient gateway treats them as
// transient; 4xx responses are permanent.
type HTTPScoreOracle struct {
	cfg    HTTPScoreOracleConfig
	client *http.Client
}

// NewHTTPScoreOracle creates the client. client may be nil to use
// http.DefaultClient.
func NewHTTPScoreOracle(cfg HTTPScoreOracleConfig, client *http.Client) *HTTPScoreOracle {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPScoreOracle{cfg: cfg, client: client}
}

// GetScore fetches the raw score for a document.
func (o *HTTPScoreOracle) GetScore(ctx context.Context, document valueobject.DocumentNumber) (int, error) {
	endpoint := fmt.Sprintf("%s/v1/scores/%s", o.cfg.BaseURL, url.PathEscape(document.Value()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		// Covers connection failures and context deadline expiry.
		return 0, fmt.Errorf("%w: %v", port.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return 0, fmt.Errorf("%w: authority returned %d", port.ErrOracleUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return 0, fmt.Errorf("%w: authority throttled the request", port.ErrOracleUnavailable)
	case resp.StatusCode != http.StatusOK:
		return 0, fmt.Errorf("score request rejected with status %d", resp.StatusCode)
	}

	var payload scorePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("%w: malformed score payload: %v", port.ErrOracleUnavailable, err)
	}
	return payload.Score, nil
}
