// Package vision is a thin client for the Google Cloud Vision
// images:annotate endpoint, used to OCR scanned invoice images.
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://vision.googleapis.com/v1"

// Client calls the Vision REST API with API-key auth.
type Client struct {
	baseURL string
	apiKey  string
	http    *retryablehttp.Client
	logger  zerolog.Logger
}

// NewClient creates a Vision client. baseURL may be empty for the real
// endpoint; tests point it at a local server.
func NewClient(baseURL, apiKey string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.Logger = nil
	return &Client{baseURL: baseURL, apiKey: apiKey, http: rc, logger: logger}
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// DetectText runs TEXT_DETECTION on one image and returns the full text
// annotation. An image with no detectable text yields "".
func (c *Client) DetectText(ctx context.Context, image []byte) (string, error) {
	payload := annotateRequest{
		Requests: []annotateEntry{{
			Image:    annotateImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []annotateFeature{{Type: "TEXT_DETECTION"}},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding annotate request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/images:annotate?key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("building annotate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling vision API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("vision API: status %d: %s", resp.StatusCode, msg)
	}

	var parsed annotateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding annotate response: %w", err)
	}
	if len(parsed.Responses) == 0 {
		return "", nil
	}
	r := parsed.Responses[0]
	if r.Error != nil {
		return "", fmt.Errorf("vision API: %s", r.Error.Message)
	}
	if len(r.TextAnnotations) == 0 {
		c.logger.Debug().Msg("vision returned no text annotations")
		return "", nil
	}
	return r.TextAnnotations[0].Description, nil
}
