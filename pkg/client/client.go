// Package client is a Go client for the listings API. It covers everything
// the storefront and admin frontends need: public browsing with filters and
// token-authenticated listing management with image uploads.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a listings API instance. It is safe for concurrent use
// once the token is set; SetToken and the auth calls are not synchronised.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a Client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithToken pre-seeds the bearer token, e.g. one restored from storage.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Token returns the bearer token currently held by the client.
func (c *Client) Token() string { return c.token }

// SetToken replaces the bearer token sent on mutating requests.
func (c *Client) SetToken(token string) { c.token = token }

// APIError is a non-2xx response decoded from the API's error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Session identifies a logged-in admin.
type Session struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// Property mirrors the API's listing shape. Image fields hold absolute URLs.
type Property struct {
	ID            string    `json:"id"`
	ProjectName   string    `json:"project_name"`
	BuilderName   string    `json:"builder_name"`
	Location      string    `json:"location"`
	Price         float64   `json:"price"`
	MainImage     string    `json:"main_image"`
	GalleryImages []string  `json:"gallery_images"`
	Description   string    `json:"description"`
	Highlights    string    `json:"highlights"`
	CreatedAt     time.Time `json:"createdAt"`
	Views         int64     `json:"views,omitempty"`
}

// Filter holds the optional listing search constraints.
type Filter struct {
	Location    string
	ProjectName string
	MinPrice    *float64
	MaxPrice    *float64
}

// Health is the liveness payload.
type Health struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Register creates a new admin account. The returned token is retained on
// the client for subsequent mutating calls.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	var s Session
	err := c.doJSON(ctx, http.MethodPost, "/api/admin/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

// Login authenticates an admin. The returned token is retained on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	err := c.doJSON(ctx, http.MethodPost, "/api/admin/login", map[string]string{
		"email": email, "password": password,
	}, &s)
	if err != nil {
		return nil, err
	}
	c.token = s.Token
	return &s, nil
}

// ListProperties returns all listings matching the filter.
func (c *Client) ListProperties(ctx context.Context, f Filter) ([]Property, error) {
	q := url.Values{}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.ProjectName != "" {
		q.Set("projectName", f.ProjectName)
	}
	if f.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}

	path := "/api/properties"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []Property
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProperty returns a single listing by id.
func (c *Client) GetProperty(ctx context.Context, id string) (*Property, error) {
	var p Property
	if err := c.doJSON(ctx, http.MethodGet, "/api/properties/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PropertyForm carries the textual listing fields for create and update.
// On update, empty fields are omitted from the request and keep their stored
// values; a nil Price does the same.
type PropertyForm struct {
	ProjectName string
	BuilderName string
	Location    string
	Price       *float64
	Description string
	Highlights  string
}

// File is an image attachment for create/update.
type File struct {
	Name        string
	ContentType string // image/jpeg, image/png or image/webp
	Reader      io.Reader
}

// CreateProperty creates a listing. The main image is mandatory.
func (c *Client) CreateProperty(ctx context.Context, form PropertyForm, main *File, gallery []*File) (*Property, error) {
	return c.sendProperty(ctx, http.MethodPost, "/api/properties", form, main, gallery)
}

// UpdateProperty partially updates a listing; uploaded files fully replace
// the stored ones.
func (c *Client) UpdateProperty(ctx context.Context, id string, form PropertyForm, main *File, gallery []*File) (*Property, error) {
	return c.sendProperty(ctx, http.MethodPut, "/api/properties/"+url.PathEscape(id), form, main, gallery)
}

// DeleteProperty hard-deletes a listing.
func (c *Client) DeleteProperty(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/properties/"+url.PathEscape(id), nil, nil)
}

// CheckHealth probes the API's liveness endpoint.
func (c *Client) CheckHealth(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) sendProperty(ctx context.Context, method, path string, form PropertyForm, main *File, gallery []*File) (*Property, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"project_name": form.ProjectName,
		"builder_name": form.BuilderName,
		"location":     form.Location,
		"description":  form.Description,
		"highlights":   form.Highlights,
	}
	if form.Price != nil {
		fields["price"] = strconv.FormatFloat(*form.Price, 'f', -1, 64)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}

	if main != nil {
		if err := writeFilePart(mw, "main_image", main); err != nil {
			return nil, err
		}
	}
	for _, f := range gallery {
		if err := writeFilePart(mw, "gallery_images", f); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var p Property
	if err := c.do(req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// writeFilePart adds a file part carrying the declared content type; the
// server validates uploads against it.
func writeFilePart(mw *multipart.Writer, field string, f *File) error {
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	h.Set("Content-Type", f.ContentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f.Reader)
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var envelope struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(res.Body).Decode(&envelope)
		if envelope.Message == "" {
			envelope.Message = res.Status
		}
		return &APIError{StatusCode: res.StatusCode, Message: envelope.Message}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
