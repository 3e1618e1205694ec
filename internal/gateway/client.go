// ==============================================================================
// VERIFICATION GATEWAY CLIENT - internal/gateway/client.go
// ==============================================================================
// HTTP client for the external verification services. All endpoints are
// opaque JSON collaborators; request timeouts are explicit and configurable.
// ==============================================================================

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"verid/internal/domain"
	"verid/pkg/logger"
)

// StatusError reports a reachable endpoint answering with a non-2xx status.
// It lets callers separate semantic failures from transport failures.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Code)
}

type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	RetryMax       int
}

type Client struct {
	http    *retryablehttp.Client
	baseURL string
	logger  logger.Logger
}

func New(cfg Config, log logger.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.RetryMax
	rc.HTTPClient.Timeout = cfg.RequestTimeout
	rc.Logger = nil

	return &Client{
		http:    rc,
		baseURL: cfg.BaseURL,
		logger:  log,
	}
}

func (c *Client) postJSON(ctx context.Context, path string, payload interface{}, headers map[string]string) (map[string]interface{}, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	c.logger.Debug("Upstream call", map[string]interface{}{
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(raw)}
	}

	var decoded map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("invalid JSON from %s: %w", path, err)
		}
	}
	return decoded, nil
}

// GenerateProfile calls the tier's primary verification endpoint with the
// full draft payload.
func (c *Client) GenerateProfile(ctx context.Context, tier domain.Tier, payload map[string]interface{}) (map[string]interface{}, error) {
	return c.postJSON(ctx, "/verification-"+string(tier), payload, nil)
}

// VerifyDL performs the dependent driving-license lookup.
func (c *Client) VerifyDL(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	return c.postJSON(ctx, "/profile-generator/dl", payload, nil)
}

// VerifyRC performs the dependent vehicle-registration lookup through the
// lite endpoint with its service selector.
func (c *Client) VerifyRC(ctx context.Context, payload map[string]interface{}) (map[string]interface{}, error) {
	return c.postJSON(ctx, "/verification-lite", payload, nil)
}

// CourtCases performs the supplementary court-case lookup, passing the full
// accumulated profile as context.
func (c *Client) CourtCases(ctx context.Context, name string, profile *domain.CanonicalProfile) (map[string]interface{}, error) {
	return c.postJSON(ctx, "/court-cases", map[string]interface{}{
		"name":        name,
		"profileData": profile,
	}, nil)
}

// GeneratePDF asks the remote rendering service for a PDF report. Used as a
// fallback when local rendering fails.
func (c *Client) GeneratePDF(ctx context.Context, profile *domain.CanonicalProfile) ([]byte, error) {
	body, err := json.Marshal(map[string]interface{}{
		"profileData":   profile,
		"courtCaseData": profile.CourtCases,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate-puppeteer-pdf", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pdf generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// EmailAttachment mirrors the send-profile-email contract.
type EmailAttachment struct {
	Content     string `json:"content"` // base64
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// SendProfileEmail delivers the report through the email service. The sending
// user is identified by header, per the service contract.
func (c *Client) SendProfileEmail(ctx context.Context, userEmail, name string, profile *domain.CanonicalProfile, attachment *EmailAttachment) error {
	payload := map[string]interface{}{
		"name":        name,
		"profileData": profile,
	}
	if attachment != nil {
		payload["pdfAttachment"] = attachment
	}

	_, err := c.postJSON(ctx, "/send-profile-email", payload, map[string]string{
		"X-User-Email": userEmail,
	})
	return err
}
