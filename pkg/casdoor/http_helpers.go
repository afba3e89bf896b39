package casdoor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/aussiebroadwan/casdoor/pkg/idx"
	"github.com/aussiebroadwan/casdoor/pkg/slogx"
)

// requestBody is an encoded request payload.
type requestBody interface {
	contentType() string
	encode() ([]byte, error)
}

type jsonBody struct{ v any }

func (b jsonBody) contentType() string { return "application/json" }

func (b jsonBody) encode() ([]byte, error) { return json.Marshal(b.v) }

type formBody struct{ values string }

func (b formBody) contentType() string { return "application/x-www-form-urlencoded" }

func (b formBody) encode() ([]byte, error) { return []byte(b.values), nil }

// urlPath builds "/api/{name}" with optional owner and query parameters:
//
//	/api/get-users?owner=built-in&pageSize=10
//
// The "?" is dropped when there is nothing to put after it.
func (c *Client) urlPath(name string, addOwner bool, query queryEncoder) string {
	path := "/api/" + name
	if addOwner {
		return path + "?" + c.queryPart(query)
	}
	if q := EncodeQuery(query); q != "" {
		return path + "?" + q
	}
	return path
}

// queryPart returns "owner={org}" followed by any encoded args.
func (c *Client) queryPart(query queryEncoder) string {
	part := "owner=" + url.QueryEscape(c.cfg.OrgName)
	if q := EncodeQuery(query); q != "" {
		part += "&" + q
	}
	return part
}

// authorizer attaches credentials to an outgoing request.
type authorizer func(*http.Request)

// basicAuth authenticates as the application itself.
func (c *Client) basicAuth(req *http.Request) {
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
}

// bearerAuth authenticates as the user who owns accessToken.
func bearerAuth(accessToken string) authorizer {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}

// doRequest sends one request. There is no retry; the caller's context
// bounds the whole call.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body requestBody,
	authorize authorizer,
) (*http.Response, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(c.cfg.Endpoint + path)
	if err != nil {
		return nil, wrapError(http.StatusBadRequest, KindURLParse, "invalid request url", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := body.encode()
		if err != nil {
			return nil, wrapError(http.StatusBadRequest, KindSerialization, "failed to encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, wrapError(http.StatusBadRequest, KindURLParse, "failed to create request", err)
	}

	reqID := slogx.RequestID(ctx)
	if reqID == "" {
		reqID = idx.New().String()
	}
	authorize(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(slogx.RequestIDHeader, reqID)
	if body != nil {
		req.Header.Set("Content-Type", body.contentType())
	}

	log := c.log(ctx).With("req_id", reqID, "method", method, "path", u.Path)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		log.Debug("casdoor_request_failed", "duration_ms", duration, "err", err)
		return nil, transportError(nil, err)
	}

	log.Debug("casdoor_request", "status", resp.StatusCode, "duration_ms", duration)
	return resp, nil
}

// wait blocks on the rate limiter, if any.
func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return transportError(nil, err)
	}
	return nil
}

func (c *Client) log(ctx context.Context) *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slogx.FromContext(ctx)
}

// request performs a call and decodes the envelope. It does not resolve the
// status; callers pick the resolver that matches the endpoint.
func request[D, D2 any](
	ctx context.Context,
	c *Client,
	method, path string,
	body requestBody,
) (*Response[D, D2], error) {
	resp, err := c.doRequest(ctx, method, path, body, c.basicAuth)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(resp, err)
	}

	var out Response[D, D2]
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, decodeError(resp, err)
	}
	return &out, nil
}
