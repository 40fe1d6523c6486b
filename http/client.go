// Package http provides the HTTP implementation of webclip.DocumentService
// against the remote document management API.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fkozlowski/webclip"
	"golang.org/x/time/rate"
)

// DefaultTimeout bounds every network call. A request still in flight when
// it fires is cancelled, not left running in the background.
const DefaultTimeout = 30 * time.Second

// clipTag is the fixed tag attached to documents created by the clipper.
const clipTag = "web-clip"

// Ensure Client implements webclip.DocumentService at compile time.
var _ webclip.DocumentService = (*Client)(nil)

// Client is a typed client for the remote document API. All operations
// return coded errors and never panic past this layer.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
// Defaults to DefaultTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit caps outgoing API calls at n requests per second. Zero or
// negative disables the limiter.
func WithRateLimit(n float64) Option {
	return func(c *Client) {
		if n > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(n), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client for the given server and API key.
func NewClient(serverURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		apiKey:  apiKey,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(10), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c
}

// CheckCredentials probes the status endpoint with the configured key.
func (c *Client) CheckCredentials(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return webclip.Errorf(webclip.EINVALIDCREDENTIALS, "invalid API key")
	case resp.StatusCode == http.StatusNotFound:
		return webclip.Errorf(webclip.ENOTFOUND, "endpoint not found, check the server URL")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return statusError(resp.StatusCode)
	}
	return nil
}

// ListDocuments fetches one page of documents, newest modification first.
func (c *Client) ListDocuments(ctx context.Context, page int) (*webclip.DocumentPage, error) {
	if page < 0 {
		return nil, webclip.Errorf(webclip.EINVALID, "page number must not be negative")
	}

	q := url.Values{}
	q.Set("pageSize", strconv.Itoa(webclip.PageSize))
	q.Set("pageNumber", strconv.Itoa(page))
	q.Set("orderBy", "lastModified desc")

	resp, err := c.do(ctx, http.MethodGet, "/api/v1/documents?"+q.Encode(), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.responseError(resp)
	}

	var body struct {
		TotalHits int                       `json:"totalHits"`
		Documents []webclip.DocumentSummary `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, webclip.Errorf(webclip.EINTERNAL, "malformed document list response: %v", err)
	}

	return &webclip.DocumentPage{
		Documents: body.Documents,
		HasMore:   (page+1)*webclip.PageSize < body.TotalHits,
		TotalHits: body.TotalHits,
	}, nil
}

// CreateDocument creates a document with one empty field and the clip tag.
func (c *Client) CreateDocument(ctx context.Context, title string) (*webclip.CreatedDocument, error) {
	if strings.TrimSpace(title) == "" {
		return nil, webclip.Errorf(webclip.EINVALID, "document title required")
	}

	payload := map[string]any{
		"name":   title,
		"tags":   []string{clipTag},
		"fields": []map[string]any{{"content": ""}},
	}
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/v1/documents", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.responseError(resp)
	}

	var created struct {
		ID       int64  `json:"id"`
		GlobalID string `json:"globalId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, webclip.Errorf(webclip.EINTERNAL, "malformed create response: %v", err)
	}

	return &webclip.CreatedDocument{ID: created.ID, GlobalID: created.GlobalID}, nil
}

// FindDocumentByID retrieves a document including its fields.
func (c *Client) FindDocumentByID(ctx context.Context, id int64) (*webclip.RemoteDocument, error) {
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", id), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, webclip.Errorf(webclip.ENOTFOUND, "document not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.responseError(resp)
	}

	var doc webclip.RemoteDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, webclip.Errorf(webclip.EINTERNAL, "malformed document response: %v", err)
	}
	return &doc, nil
}

// AppendToDocument appends the fragment to the document's single field.
// Documents with zero fields or more than one field are rejected without
// being mutated.
func (c *Client) AppendToDocument(ctx context.Context, id int64, fragment string) error {
	doc, err := c.FindDocumentByID(ctx, id)
	if err != nil {
		return err
	}

	if len(doc.Fields) == 0 {
		return webclip.Errorf(webclip.EINELIGIBLE, "document has no editable fields")
	}
	if len(doc.Fields) > 1 {
		return webclip.Errorf(webclip.EINELIGIBLE, "form-based documents unsupported: single-field documents only")
	}

	field := doc.Fields[0]
	payload := map[string]any{
		"fields": []map[string]any{{
			"id":      field.ID,
			"content": field.Content + fragment,
		}},
	}

	resp, err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d", id), payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.responseError(resp)
	}
	return nil
}

// UploadFile uploads a file via multipart POST and extracts the file id
// from the response.
func (c *Client) UploadFile(ctx context.Context, r io.Reader, filename string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", webclip.Errorf(webclip.EINTERNAL, "building upload request: %v", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", webclip.Errorf(webclip.EINTERNAL, "building upload request: %v", err)
	}
	if err := mw.Close(); err != nil {
		return "", webclip.Errorf(webclip.EINTERNAL, "building upload request: %v", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/v1/files", &body, mw.FormDataContentType())
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.responseError(resp)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", webclip.Errorf(webclip.EINTERNAL, "reading upload response: %v", err)
	}

	fileID := extractFileID(raw)
	if fileID == "" {
		return "", webclip.Errorf(webclip.EINTERNAL, "upload response contains no file id")
	}
	return fileID, nil
}

// LinkFileToDocument appends a fragment referencing an uploaded file, under
// the same single-field constraint as AppendToDocument.
func (c *Client) LinkFileToDocument(ctx context.Context, id int64, fileID, fragment string) error {
	if fileID == "" {
		return webclip.Errorf(webclip.EINVALID, "file id required")
	}
	return c.AppendToDocument(ctx, id, fragment)
}

// globalIDRe matches human-facing document/file identifiers such as "SD42".
var globalIDRe = regexp.MustCompile(`\b[A-Z]{2,}\d+\b`)

// selfLinkRe matches the trailing path segment of a files self link.
var selfLinkRe = regexp.MustCompile(`"self"\s*:\s*"[^"]*/files/([^"/]+)"`)

// extractFileID pulls the uploaded file's id out of the response body,
// trying a direct id field, then a global-id pattern, then a self-link
// path. Returns "" when nothing matches.
func extractFileID(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err == nil {
		switch id := payload["id"].(type) {
		case string:
			if id != "" {
				return id
			}
		case float64:
			return strconv.FormatInt(int64(id), 10)
		}
	}

	if m := globalIDRe.Find(body); m != nil {
		return string(m)
	}
	if m := selfLinkRe.FindSubmatch(body); m != nil {
		return string(m[1])
	}
	return ""
}

// doJSON issues a request with a JSON body.
func (c *Client) doJSON(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, webclip.Errorf(webclip.EINTERNAL, "encoding request: %v", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(body), "application/json")
}

// do issues a timeout-bounded request with the API key header. Transport
// failures are classified as ETIMEOUT or EUNAVAILABLE; they are never
// conflated.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, webclip.Errorf(webclip.EUNAVAILABLE, "network error: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		cancel()
		return nil, webclip.Errorf(webclip.EINVALID, "building request: %v", err)
	}
	req.Header.Set("apiKey", c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		if isTimeout(err) {
			return nil, webclip.Errorf(webclip.ETIMEOUT, "request timed out after %s", c.timeout)
		}
		return nil, webclip.Errorf(webclip.EUNAVAILABLE, "network error: %v", err)
	}

	// Release the timeout once the body is fully consumed.
	resp.Body = &cancelReadCloser{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelReadCloser cancels the request context when the body is closed.
type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// isTimeout reports whether the transport error was a deadline firing.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// statusError maps a non-2xx HTTP status onto the error taxonomy.
func statusError(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return webclip.Errorf(webclip.ESESSIONEXPIRED, "session expired, please sign in again")
	case status == http.StatusForbidden:
		return webclip.Errorf(webclip.EPERMISSION, "permission denied")
	case status == http.StatusTooManyRequests:
		return webclip.Errorf(webclip.ERATELIMIT, "rate limited by the server")
	case status >= 500:
		return webclip.Errorf(webclip.EUNAVAILABLE, "server error (HTTP %d)", status)
	default:
		return webclip.Errorf(webclip.EINTERNAL, "unexpected response (HTTP %d)", status)
	}
}

// responseError turns a non-2xx response into a coded error. It prefers a
// message from a JSON error body, then a short raw body, then the generic
// status mapping.
func (c *Client) responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	code := webclip.ErrorCode(statusError(resp.StatusCode))
	if msg := parseErrorBody(body); msg != "" {
		return webclip.Errorf(code, "%s", msg)
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" && len(trimmed) < 100 {
		return webclip.Errorf(code, "%s", trimmed)
	}
	return statusError(resp.StatusCode)
}

// parseErrorBody digs a message out of a JSON error payload, accepting
// {"message": ...}, {"error": "..."} and {"error": {"message": ...}}.
func parseErrorBody(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if msg, ok := payload["message"].(string); ok && msg != "" {
		return msg
	}
	switch e := payload["error"].(type) {
	case string:
		return e
	case map[string]any:
		if msg, ok := e["message"].(string); ok {
			return msg
		}
	}
	return ""
}
