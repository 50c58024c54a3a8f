package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/scholarsphere/internal/client/models"
	"github.com/dmitrijs2005/scholarsphere/internal/common"
	"github.com/dmitrijs2005/scholarsphere/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodySize    = 4 << 20

	minKeywordQuery = 2
	maxKeywordLimit = 50
)

// HTTPClient implements Client over the backend's REST/JSON API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	log     logging.Logger

	mu   sync.RWMutex
	auth Authenticator
}

type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient returns a client for the backend at baseURL
// (scheme://host[:port]); the /api prefix is added here.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("server url %q: expected http(s)://host[:port]", baseURL)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}

	c := &HTTPClient{
		baseURL: u.String() + common.APIPrefix,
		http:    &http.Client{Jar: jar, Timeout: defaultTimeout},
		log:     logging.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// SetAuthenticator installs the token source used for protected calls.
func (c *HTTPClient) SetAuthenticator(a Authenticator) {
	c.mu.Lock()
	c.auth = a
	c.mu.Unlock()
}

func (c *HTTPClient) authenticator() Authenticator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// protected calls are renewed and retried once on 401
	protected bool
}

type response struct {
	status int
	body   []byte
}

func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	var payload []byte
	if r.body != nil {
		var err error
		if payload, err = json.Marshal(r.body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	resp, err := c.send(ctx, r, payload)
	if err != nil {
		return err
	}

	if resp.status == http.StatusUnauthorized && r.protected {
		if a := c.authenticator(); a != nil && a.RefreshToken(ctx) {
			retry, err := c.send(ctx, r, payload)
			if err != nil {
				return err
			}
			resp = retry
		}
	}

	if resp.status < 200 || resp.status > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, r.method, r.path, err)
	}
	return nil
}

func (c *HTTPClient) send(ctx context.Context, r request, payload []byte) (*response, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a := c.authenticator(); a != nil {
		if tok := a.AccessToken(); tok != "" {
			req.Header.Set(common.AuthorizationHeaderName, "Bearer "+tok)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	c.log.Debug(ctx, "backend call", "method", r.method, "path", r.path, "status", res.StatusCode, "request_id", requestID)

	return &response{status: res.StatusCode, body: data}, nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeAPIError(resp *response) error {
	message := http.StatusText(resp.status)
	var eb errorBody
	if json.Unmarshal(resp.body, &eb) == nil {
		switch {
		case eb.Error != "":
			message = eb.Error
		case eb.Message != "":
			message = eb.Message
		}
	}
	return &APIError{Message: message, StatusCode: resp.status}
}

func facultyPath(facultyID string, suffix ...string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(facultyID))
	if err != nil {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidFacultyID, facultyID)
	}
	return "/faculty/" + id.String() + strings.Join(suffix, ""), nil
}

func (c *HTTPClient) Institutions(ctx context.Context) ([]models.Institution, error) {
	var out []models.Institution
	if err := c.do(ctx, request{method: http.MethodGet, path: "/institution", protected: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SearchFaculty(ctx context.Context, p models.SearchParams) ([]models.SearchResult, error) {
	q := url.Values{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			q.Set(k, v)
		}
	}
	set("query", p.Query)
	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("department", p.Department)
	set("institution", p.Institution)

	var out []models.SearchResult
	if err := c.do(ctx, request{method: http.MethodGet, path: "/search/faculty", query: q, protected: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchKeywords returns keyword completions for q. Queries shorter than two
// characters return no suggestions without a request; limit is clamped to
// [1, 50].
func (c *HTTPClient) SearchKeywords(ctx context.Context, q string, limit int) ([]string, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minKeywordQuery {
		return []string{}, nil
	}
	limit = min(max(limit, 1), maxKeywordLimit)

	query := url.Values{}
	query.Set("q", q)
	query.Set("limit", strconv.Itoa(limit))

	var out []string
	if err := c.do(ctx, request{method: http.MethodGet, path: "/search/keyword", query: query, protected: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) GetFaculty(ctx context.Context, facultyID string) (*models.Faculty, error) {
	path, err := facultyPath(facultyID)
	if err != nil {
		return nil, err
	}
	var out models.Faculty
	if err := c.do(ctx, request{method: http.MethodGet, path: path, protected: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createFacultyResponse struct {
	FacultyID string `json:"faculty_id"`
	Message   string `json:"message"`
}

// CreateFaculty creates a record and returns the id the backend assigned.
func (c *HTTPClient) CreateFaculty(ctx context.Context, f *models.Faculty) (string, error) {
	body := f.Cleaned()
	body.FacultyID = ""

	var out createFacultyResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/faculty", body: body, protected: true}, &out); err != nil {
		return "", err
	}
	if out.FacultyID == "" {
		return "", fmt.Errorf("%w: create faculty: missing faculty_id", ErrInvalidResponse)
	}
	return out.FacultyID, nil
}

func (c *HTTPClient) UpdateFaculty(ctx context.Context, facultyID string, f *models.Faculty) error {
	path, err := facultyPath(facultyID)
	if err != nil {
		return err
	}
	body := f.Cleaned()
	body.FacultyID = ""
	return c.do(ctx, request{method: http.MethodPut, path: path, body: body, protected: true}, nil)
}

func (c *HTTPClient) FacultyKeywords(ctx context.Context, facultyID string) ([]string, error) {
	path, err := facultyPath(facultyID, "/keywords")
	if err != nil {
		return nil, err
	}
	out := []string{}
	if err := c.do(ctx, request{method: http.MethodGet, path: path, protected: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type keywordsBody struct {
	Keywords []string `json:"keywords"`
}

func (c *HTTPClient) UpdateFacultyKeywords(ctx context.Context, facultyID string, keywords []string) error {
	path, err := facultyPath(facultyID, "/keywords")
	if err != nil {
		return err
	}
	if keywords == nil {
		keywords = []string{}
	}
	return c.do(ctx, request{method: http.MethodPut, path: path, body: keywordsBody{Keywords: keywords}, protected: true}, nil)
}

func (c *HTTPClient) Recommendations(ctx context.Context, facultyID string) ([]models.Recommendation, error) {
	id, err := uuid.Parse(strings.TrimSpace(facultyID))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", common.ErrInvalidFacultyID, facultyID)
	}
	var out []models.Recommendation
	if err := c.do(ctx, request{method: http.MethodGet, path: "/recommend/" + id.String(), protected: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type registerBody struct {
	FacultyID string `json:"faculty_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

func (c *HTTPClient) RegisterCredentials(ctx context.Context, facultyID, username string, password []byte) error {
	if _, err := uuid.Parse(strings.TrimSpace(facultyID)); err != nil {
		return fmt.Errorf("%w: %q", common.ErrInvalidFacultyID, facultyID)
	}
	body := registerBody{FacultyID: strings.TrimSpace(facultyID), Username: username, Password: string(password)}
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: body}, nil)
}

type loginBody struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

// Login exchanges credentials for an access token. The renewal cookie set by
// the backend stays in the client's cookie jar.
func (c *HTTPClient) Login(ctx context.Context, username string, password []byte, rememberMe bool) (*models.LoginResult, error) {
	body := loginBody{Username: username, Password: string(password), RememberMe: rememberMe}
	var out models.LoginResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: body}, &out); err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, fmt.Errorf("%w: login: missing access_token", ErrInvalidResponse)
	}
	return &out, nil
}

type tokenBody struct {
	AccessToken string `json:"access_token"`
}

// Refresh mints a new access token from the renewal cookie.
func (c *HTTPClient) Refresh(ctx context.Context) (string, error) {
	var out tokenBody
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/refresh"}, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: refresh: missing access_token", ErrInvalidResponse)
	}
	return out.AccessToken, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/auth/logout"}, nil)
}

func (c *HTTPClient) CheckUsername(ctx context.Context, username string) (*models.UsernameAvailability, error) {
	q := url.Values{}
	q.Set("username", username)
	var out models.UsernameAvailability
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/check-username", query: q}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type credentialsBody struct {
	FacultyID      string `json:"faculty_id"`
	HasCredentials bool   `json:"has_credentials"`
}

func (c *HTTPClient) CheckCredentials(ctx context.Context, facultyID string) (bool, error) {
	id, err := uuid.Parse(strings.TrimSpace(facultyID))
	if err != nil {
		return false, fmt.Errorf("%w: %q", common.ErrInvalidFacultyID, facultyID)
	}
	var out credentialsBody
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/check-credentials/" + id.String()}, &out); err != nil {
		return false, err
	}
	return out.HasCredentials, nil
}

// IsUnavailable reports whether err is a transport failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
