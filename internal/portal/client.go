// Package portal implements the HTTP client for the course-registration
// portal's JSON endpoints. The portal is an opaque service: requests are
// authenticated with a bearer-style token header copied from a browser
// session, and every response arrives as a DataList envelope that is
// persisted verbatim by the caller.
package portal

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

	"github.com/daniel/timetable-agent/internal/types"
)

// DefaultBaseURL is the production portal host.
const DefaultBaseURL = "https://custom-100380.campusnexus.cloud"

// DefaultTimeout bounds each portal request. The legacy scripts ran
// without one, so a hung request blocked the whole run.
const DefaultTimeout = 30 * time.Second

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36 Edg/136.0.0.0"

const (
	publishedTermsPath = "/WebServices/api/HelperService/GetTimeTablePublishedTerms"
	coursesByTermPath  = "/WebServices/api/CourseRegistration/GetAllCoursesByTermId"
	classSchedulePath  = "/WebServices/api/CourseRegistration/GetClassScheduleByTermId"
)

// excerptLen caps how much of an error response body is kept for logging.
const excerptLen = 200

// Error represents a failed portal request. Status is zero for
// transport-level failures. An expired token surfaces here as a non-200
// status; there is no refresh logic.
type Error struct {
	Endpoint string
	Status   int
	Message  string
	Body     string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("portal request %s failed: %s: %v", e.Endpoint, e.Message, e.Cause)
	}
	return fmt.Sprintf("portal request %s failed: %s", e.Endpoint, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the portal client.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultOptions returns sensible defaults for talking to the portal.
func DefaultOptions() *Options {
	return &Options{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Client issues authenticated JSON POST requests to the portal. All
// requests run sequentially; the client holds no mutable state beyond the
// underlying http.Client.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient builds a portal client for the given token. A nil opts uses
// the production host and default timeout.
func NewClient(token string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// PublishedTerms fetches the list of terms with published timetables.
// Returns the decoded envelope and the raw response bytes.
func (c *Client) PublishedTerms(ctx context.Context) (*types.TermsResponse, []byte, error) {
	raw, err := c.post(ctx, publishedTermsPath, struct{}{})
	if err != nil {
		return nil, nil, err
	}

	var resp types.TermsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, nil, &Error{Endpoint: publishedTermsPath, Message: "malformed terms response", Cause: err}
	}
	return &resp, raw, nil
}

// CoursesByTerm fetches the course list for one term. Returns the decoded
// envelope and the raw response bytes.
func (c *Client) CoursesByTerm(ctx context.Context, termID int) (*types.CourseListResponse, []byte, error) {
	payload := struct {
		TermID int `json:"TermId"`
	}{TermID: termID}

	raw, err := c.post(ctx, coursesByTermPath, payload)
	if err != nil {
		return nil, nil, err
	}

	var resp types.CourseListResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, nil, &Error{Endpoint: coursesByTermPath, Message: "malformed course list response", Cause: err}
	}
	return &resp, raw, nil
}

// ClassSchedule fetches the class schedule for one batch of course IDs
// within one term. The IDs travel as a comma-joined string; IsAllWeek
// asks for every weekday in one response.
func (c *Client) ClassSchedule(ctx context.Context, termID int, courseIDs []int) (*types.ScheduleResponse, []byte, error) {
	joined := make([]string, len(courseIDs))
	for i, id := range courseIDs {
		joined[i] = strconv.Itoa(id)
	}

	payload := struct {
		TermID    int    `json:"TermId"`
		CourseIds string `json:"CourseIds"`
		IsAllWeek bool   `json:"IsAllWeek"`
	}{TermID: termID, CourseIds: strings.Join(joined, ","), IsAllWeek: true}

	raw, err := c.post(ctx, classSchedulePath, payload)
	if err != nil {
		return nil, nil, err
	}

	var resp types.ScheduleResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, nil, &Error{Endpoint: classSchedulePath, Message: "malformed schedule response", Cause: err}
	}
	return &resp, raw, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Endpoint: path, Message: "failed to encode request body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Endpoint: path, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("accept", "application/json, text/plain, */*")
	req.Header.Set("accept-language", "en")
	req.Header.Set("content-type", "application/json")
	req.Header.Set("origin", c.baseURL)
	req.Header.Set("referer", c.baseURL+"/PortalExtension/")
	req.Header.Set("user-agent", defaultUserAgent)
	req.Header.Set("token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Endpoint: path, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Endpoint: path, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Endpoint: path,
			Status:   resp.StatusCode,
			Message:  fmt.Sprintf("HTTP status %d", resp.StatusCode),
			Body:     excerpt(raw),
		}
	}

	return raw, nil
}

func excerpt(body []byte) string {
	if len(body) > excerptLen {
		return string(body[:excerptLen]) + "..."
	}
	return string(body)
}
