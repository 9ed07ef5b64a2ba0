package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/go-challenge-client/challenges"
	apperrors "github.com/jrsteele09/go-challenge-client/internal/errors"
	"github.com/jrsteele09/go-challenge-client/internal/utils"
	"github.com/pkg/errors"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultBotBypassHeader = "ngrok-skip-browser-warning"
	botBypassValue         = "none"
	refreshHeader          = "refresh"
	maxBodyBytes           = 1 << 20
)

// participateBody is the placeholder payload the participate endpoint expects.
var participateBody = []byte(`{"data":""}`)

// errorBody is the JSON error envelope of non-2xx responses.
type errorBody struct {
	Error *struct {
		Message *string `json:"message"`
	} `json:"error"`
	Status *int `json:"status"`
}

// Client talks to the challenge API.
type Client struct {
	baseURL         *url.URL
	httpClient      *http.Client
	botBypassHeader string
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client (primarily for testing)
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithBotBypass sets the header name sent with the value "none" on every request.
// An empty name disables it.
func WithBotBypass(header string) ClientOption {
	return func(c *Client) {
		c.botBypassHeader = header
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, options ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "[NewClient] invalid base URL")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("[NewClient] base URL %q needs a scheme and host", baseURL)
	}

	c := &Client{
		baseURL:         u,
		httpClient:      &http.Client{Timeout: defaultTimeout},
		botBypassHeader: defaultBotBypassHeader,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Participate asks the API to add the token's owner to the challenge.
// A non-2xx response is returned as *APIError, a failed round trip as *TransportError.
func (c *Client) Participate(ctx context.Context, challengeID int64, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf("/challenges/participate/%d", challengeID), bytes.NewReader(participateBody))
	if err != nil {
		return errors.Wrap(err, "[Client.Participate]")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "participate", Err: err}
	}
	defer resp.Body.Close()

	if isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil
	}
	return decodeAPIError(resp)
}

// RenewAccessToken exchanges the refresh token for a new access token. The new token is
// carried only in the Authorization response header; the body is ignored.
func (c *Client) RenewAccessToken(ctx context.Context, refreshToken string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/token", nil)
	if err != nil {
		return "", errors.Wrap(err, "[Client.RenewAccessToken]")
	}
	req.Header.Set(refreshHeader, refreshToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: "renew", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if !isSuccess(resp.StatusCode) {
		return "", errors.Wrapf(apperrors.ErrRenewalRejected, "[Client.RenewAccessToken] http %d", resp.StatusCode)
	}

	accessToken := resp.Header.Get("Authorization")
	if accessToken == "" {
		return "", errors.Wrap(apperrors.ErrRenewalRejected, "[Client.RenewAccessToken] no authorization header")
	}
	return accessToken, nil
}

// GetChallenge fetches the challenge detail. accessToken may be empty for anonymous
// sessions.
func (c *Client) GetChallenge(ctx context.Context, challengeID int64, accessToken string) (*challenges.Challenge, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/challenges/%d", challengeID), nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.GetChallenge]")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "get challenge", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "[Client.GetChallenge] challenge %d", challengeID)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, decodeAPIError(resp)
	}

	var envelope struct {
		Data *challenges.Challenge `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&envelope); err != nil {
		return nil, errors.Wrap(err, "[Client.GetChallenge] decode")
	}
	if envelope.Data == nil {
		return nil, errors.Wrap(apperrors.ErrUnexpectedResponse, "[Client.GetChallenge] empty data")
	}
	return envelope.Data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if c.botBypassHeader != "" {
		req.Header.Set(c.botBypassHeader, botBypassValue)
	}
	return req, nil
}

func decodeAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{HTTPStatus: resp.StatusCode}

	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return apiErr
	}
	apiErr.Status = utils.Value(body.Status)
	if body.Error != nil {
		apiErr.raw = utils.Value(body.Error.Message)
		apiErr.Message = ParseServerMessage(apiErr.raw)
	}
	return apiErr
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
