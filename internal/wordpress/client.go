// ABOUTME: OAuth1-signed HTTP client for a WordPress-style REST API.
// ABOUTME: Handles endpoint discovery, post create/update, and media list/upload.
package wordpress

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

	"github.com/dghubble/oauth1"
	"github.com/rs/zerolog"

	"github.com/draftsmith/wpbridge/internal/models"
)

const requestTimeout = 30 * time.Second

// StatusError is a non-2xx API response, carrying the status code and the raw
// body verbatim for the operator.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote API returned %d: %s", e.Code, e.Body)
}

// Rendered is the {"rendered": "..."} envelope WordPress uses for computed fields.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Post maps the fields of a post resource the bridge cares about.
type Post struct {
	ID            int      `json:"id"`
	Slug          string   `json:"slug"`
	Excerpt       Rendered `json:"excerpt"`
	FeaturedMedia int      `json:"featured_media"`
	Sticky        bool     `json:"sticky"`
	Categories    []int    `json:"categories"`
	Tags          []int    `json:"tags"`
	GUID          Rendered `json:"guid"`
}

// MediaItem maps a media library resource. GUID.Rendered is the canonical URL.
type MediaItem struct {
	ID   int      `json:"id"`
	GUID Rendered `json:"guid"`
}

// SourceURL returns the canonical URL of the media item.
func (m MediaItem) SourceURL() string {
	return m.GUID.Rendered
}

// PostPayload is the JSON body for post create and update calls.
type PostPayload struct {
	Date          string `json:"date,omitempty"`
	Title         string `json:"title,omitempty"`
	Content       string `json:"content,omitempty"`
	Status        string `json:"status,omitempty"`
	Author        int    `json:"author,omitempty"`
	CommentStatus string `json:"comment_status,omitempty"`
	PingStatus    string `json:"ping_status,omitempty"`
	Format        string `json:"format,omitempty"`
	Categories    []int  `json:"categories,omitempty"`
	Tags          []int  `json:"tags,omitempty"`
}

// AuthEndpoints are the OAuth1 endpoints a site advertises in its root
// descriptor. Any of them may be empty if the site does not advertise OAuth1;
// callers must check before starting a handshake.
type AuthEndpoints struct {
	Request   string
	Authorize string
	Access    string
}

// Complete returns true if all three endpoints are advertised.
func (e AuthEndpoints) Complete() bool {
	return e.Request != "" && e.Authorize != "" && e.Access != ""
}

// siteDescriptor is the slice of the root API description we read.
type siteDescriptor struct {
	Authentication struct {
		OAuth1 struct {
			Request   string `json:"request"`
			Authorize string `json:"authorize"`
			Access    string `json:"access"`
		} `json:"oauth1"`
	} `json:"authentication"`
}

// Discover fetches the site's root API description and extracts the OAuth1
// endpoints. Discovery is unsigned; absent fields pass through empty rather
// than failing.
func Discover(ctx context.Context, baseURL string) (*AuthEndpoints, error) {
	client := &http.Client{Timeout: requestTimeout}

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("site discovery failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var desc siteDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to decode site descriptor: %w", err)
	}

	return &AuthEndpoints{
		Request:   desc.Authentication.OAuth1.Request,
		Authorize: desc.Authentication.OAuth1.Authorize,
		Access:    desc.Authentication.OAuth1.Access,
	}, nil
}

// Client talks to one site's REST API with OAuth1-signed requests.
type Client struct {
	baseURL    string
	apiVersion string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a signed client for the given site and credentials.
func NewClient(baseURL, apiVersion string, creds models.Credentials, log zerolog.Logger) *Client {
	cfg := oauth1.NewConfig(creds.ClientKey, creds.ClientSecret)
	token := oauth1.NewToken(creds.ResourceOwnerKey, creds.ResourceOwnerSecret)
	httpClient := cfg.Client(oauth1.NoContext, token)
	httpClient.Timeout = requestTimeout

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: strings.Trim(apiVersion, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// EndpointURL joins the base URL, API version, and resource name. A positive id
// addresses one member of the collection.
func (c *Client) EndpointURL(resource string, id int) string {
	url := c.baseURL + "/" + c.apiVersion + "/" + resource
	if id > 0 {
		url += "/" + strconv.Itoa(id)
	}
	return url
}

// CreateDraft creates a new post and returns the parsed response. The returned
// int is the HTTP status code of the call.
func (c *Client) CreateDraft(ctx context.Context, payload PostPayload) (*Post, int, error) {
	var post Post
	status, err := c.doJSON(ctx, "POST", c.EndpointURL("posts", 0), payload, &post)
	if err != nil {
		return nil, status, err
	}
	c.log.Debug().Int("post_id", post.ID).Int("status", status).Msg("draft created")
	return &post, status, nil
}

// UpdatePost pushes the final payload to an existing post.
func (c *Client) UpdatePost(ctx context.Context, id int, payload PostPayload) (*Post, int, error) {
	var post Post
	status, err := c.doJSON(ctx, "POST", c.EndpointURL("posts", id), payload, &post)
	if err != nil {
		return nil, status, err
	}
	c.log.Debug().Int("post_id", id).Int("status", status).Msg("post updated")
	return &post, status, nil
}

// ListMedia fetches the full remote media library listing.
func (c *Client) ListMedia(ctx context.Context) ([]MediaItem, int, error) {
	var items []MediaItem
	status, err := c.doJSON(ctx, "GET", c.EndpointURL("media", 0), nil, &items)
	if err != nil {
		return nil, status, err
	}
	return items, status, nil
}

// UploadMedia posts raw file bytes to the media endpoint. The filename header
// controls the name the library stores the item under, which is what later
// listings are matched against.
func (c *Client) UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*MediaItem, int, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.EndpointURL("media", 0), bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("remote API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var item MediaItem
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
	}
	c.log.Debug().Str("filename", filename).Str("url", item.SourceURL()).Msg("media uploaded")
	return &item, resp.StatusCode, nil
}

// doJSON performs a signed JSON round trip. Non-2xx responses become a
// StatusError carrying the raw body.
func (c *Client) doJSON(ctx context.Context, method, url string, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("remote API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
