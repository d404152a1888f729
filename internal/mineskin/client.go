// Package mineskin is the client for the external skin-generation API.
//
// The service receives the uploaded PNG and returns the signed texture pair
// that game clients accept. Every failure mode is mapped to a distinct error
// so the upload pipeline can report an accurate cause.
package mineskin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zeroends/skinhub/internal/observability/logger"
)

// DefaultBaseURL is the production generation endpoint.
const DefaultBaseURL = "https://api.mineskin.org"

const (
	generatePath   = "/generate/upload"
	userAgent      = "SkinHub/1.0"
	placeholderKey = "DUMMY_API_KEY"
	snippetLimit   = 100
)

// Client errors.
var (
	ErrMissingAPIKey       = fmt.Errorf("mineskin: api key is missing or a placeholder")
	ErrTransport           = fmt.Errorf("mineskin: request failed")
	ErrUpstreamRateLimited = fmt.Errorf("mineskin: rate limited by upstream")
	ErrUpstreamRejected    = fmt.Errorf("mineskin: request rejected (invalid file or auth)")
	ErrMalformedResponse   = fmt.Errorf("mineskin: malformed response envelope")
)

// UpstreamStatusError reports a non-2xx status outside the specifically
// classified ones, with a short body snippet for the logs.
type UpstreamStatusError struct {
	Status  int
	Snippet string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("mineskin: upstream status %d: %s", e.Status, e.Snippet)
}

// Skin is the parsed result of a successful generation.
type Skin struct {
	Name      string
	Texture   string
	Signature string
}

// Config for the client.
type Config struct {
	BaseURL string        // defaults to DefaultBaseURL
	APIKey  string        // sent as a bearer token when set
	Timeout time.Duration // bound on the whole round trip, defaults to 15s
}

// Client submits generation requests.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

// New creates a Client.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: base,
		apiKey:  strings.TrimSpace(cfg.APIKey),
		http:    &http.Client{Timeout: timeout},
		log:     logger.Named("mineskin"),
	}
}

// KeyConfigured reports whether a usable API key is present. A placeholder
// left in the config counts as missing.
func (c *Client) KeyConfigured() bool {
	return c.apiKey != "" && !strings.Contains(c.apiKey, placeholderKey)
}

// Generate submits the PNG and returns the signed texture. name is the
// logical skin name; fileName is the original upload name used for the
// multipart part and as the name fallback.
func (c *Client) Generate(ctx context.Context, name, fileName string, png []byte) (*Skin, error) {
	body, contentType, err := buildMultipart(name, fileName, png)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// A missing credential commonly surfaces as an opaque transport
		// failure; report it as the configuration problem it is.
		if !c.KeyConfigured() {
			return nil, ErrMissingAPIKey
		}
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("generation failed",
			logger.Status(resp.StatusCode),
			logger.String("body", snippet(raw)),
		)
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, ErrUpstreamRateLimited
		case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
			return nil, ErrUpstreamRejected
		default:
			return nil, &UpstreamStatusError{Status: resp.StatusCode, Snippet: snippet(raw)}
		}
	}

	var envelope struct {
		Error string `json:"error"`
		Data  *struct {
			Name    string `json:"name"`
			Texture *struct {
				Value     string `json:"value"`
				Signature string `json:"signature"`
			} `json:"texture"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Data == nil || envelope.Data.Texture == nil {
		c.log.Warn("malformed generation response", logger.String("body", snippet(raw)))
		return nil, ErrMalformedResponse
	}

	skinName := envelope.Data.Name
	if skinName == "" {
		skinName = strings.TrimSuffix(fileName, ".png")
	}
	return &Skin{
		Name:      skinName,
		Texture:   envelope.Data.Texture.Value,
		Signature: envelope.Data.Texture.Signature,
	}, nil
}

// buildMultipart assembles the three-part form: name, visibility and file.
func buildMultipart(name, fileName string, png []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("name", name); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("visibility", "1"); err != nil {
		return nil, "", err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(png); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func snippet(b []byte) string {
	s := string(b)
	if len(s) > snippetLimit {
		s = s[:snippetLimit]
	}
	return s
}
