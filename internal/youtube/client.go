// Package youtube is a minimal client for the slices of the YouTube Data API
// and the userinfo endpoint this service needs: channel listing scoped to the
// authenticated identity, profile lookup, and the multipart video insert.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"golang.org/x/oauth2"

	"github.com/tubeport/backend/internal/models"
)

const defaultBaseURL = "https://www.googleapis.com"

// ClientProvider supplies an HTTP client that authenticates requests with the
// given credential bundle, refreshing it when possible.
type ClientProvider interface {
	Client(ctx context.Context, bundle *oauth2.Token) *http.Client
}

// Client calls the provider APIs on behalf of an authenticated session.
type Client struct {
	provider ClientProvider
	baseURL  string
}

// NewClient constructs a Client. An empty baseURL selects the production API
// host; tests point it at a local server.
func NewClient(provider ClientProvider, baseURL string) *Client {
	if provider == nil {
		panic("youtube: client provider must not be nil")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		provider: provider,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

// UserInfo fetches the authenticated identity's profile.
func (c *Client) UserInfo(ctx context.Context, bundle *oauth2.Token) (models.Profile, error) {
	var profile models.Profile
	if err := c.get(ctx, bundle, "/oauth2/v2/userinfo", &profile); err != nil {
		return models.Profile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	return profile, nil
}

// HasChannel reports whether the authenticated identity owns at least one
// channel. The listing is minimal: identifiers only, scoped to "mine".
func (c *Client) HasChannel(ctx context.Context, bundle *oauth2.Token) (bool, error) {
	var response struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}

	if err := c.get(ctx, bundle, "/youtube/v3/channels?part=id&mine=true", &response); err != nil {
		return false, fmt.Errorf("list channels: %w", err)
	}

	return len(response.Items) > 0, nil
}

// Publish submits the media stream together with its metadata as one
// multipart request, fixed to private visibility, and returns the video id
// assigned upstream. The media part is streamed, never buffered whole.
func (c *Client) Publish(ctx context.Context, bundle *oauth2.Token, title, description string, media io.Reader) (string, error) {
	metadata := map[string]any{
		"snippet": map[string]string{
			"title":       title,
			"description": description,
		},
		"status": map[string]string{
			"privacyStatus": "private",
		},
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/json; charset=UTF-8"}})
		if err == nil {
			err = json.NewEncoder(part).Encode(metadata)
		}
		if err == nil {
			var mediaPart io.Writer
			mediaPart, err = mw.CreatePart(textproto.MIMEHeader{"Content-Type": {"application/octet-stream"}})
			if err == nil {
				_, err = io.Copy(mediaPart, media)
			}
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	url := c.baseURL + "/upload/youtube/v3/videos?uploadType=multipart&part=id,snippet,status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		return "", fmt.Errorf("create publish request: %w", err)
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())

	resp, err := c.provider.Client(ctx, bundle).Do(req)
	if err != nil {
		return "", fmt.Errorf("publish request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apiError(resp)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("decode publish response: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("publish response missing video id")
	}

	return created.ID, nil
}

func (c *Client) get(ctx context.Context, bundle *oauth2.Token, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.provider.Client(ctx, bundle).Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// APIError reports a non-2xx response from the provider.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider API error: status %d: %s", e.StatusCode, e.Message)
}

func apiError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&envelope)

	return &APIError{StatusCode: resp.StatusCode, Message: envelope.Error.Message}
}
