// Package apiclient is a small client for the fact-check HTTP API used by
// the command line tools.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nutriproof/internal/schemas"
)

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s -> %d: %s", e.Method, e.URL, e.Code, e.Body)
}

// FactCheck runs the synchronous pipeline on text.
func (c *Client) FactCheck(ctx context.Context, text string) ([]schemas.FactCheckResult, error) {
	var out []schemas.FactCheckResult
	err := c.do(ctx, http.MethodPost, "/api/fact-check", schemas.FactCheckRequest{Text: text}, &out)
	return out, err
}

func (c *Client) CreateCheck(ctx context.Context, text string) (schemas.CreateCheckOut, error) {
	var out schemas.CreateCheckOut
	err := c.do(ctx, http.MethodPost, "/api/checks", schemas.FactCheckRequest{Text: text}, &out)
	return out, err
}

func (c *Client) GetCheck(ctx context.Context, id string) (schemas.CheckOut, error) {
	var out schemas.CheckOut
	err := c.do(ctx, http.MethodGet, "/api/checks/"+id, nil, &out)
	return out, err
}

func (c *Client) Recheck(ctx context.Context, id string) (schemas.CreateCheckOut, error) {
	var out schemas.CreateCheckOut
	err := c.do(ctx, http.MethodPost, "/api/checks/"+id+"/recheck", nil, &out)
	return out, err
}

// Grade posts results to the grading endpoint and decodes the response into out.
func (c *Client) Grade(ctx context.Context, req schemas.GradeRequest, out any) error {
	return c.do(ctx, http.MethodPost, "/api/grade", req, out)
}

// WaitCheck polls a check until it is done or failed. onUpdate, when set, is
// called for every poll whose status differs from the previous one.
func (c *Client) WaitCheck(ctx context.Context, id string, every time.Duration, onUpdate func(schemas.CheckOut)) (schemas.CheckOut, error) {
	t := time.NewTicker(every)
	defer t.Stop()
	last := ""
	for {
		out, err := c.GetCheck(ctx, id)
		if err != nil {
			return out, err
		}
		if out.Status != last && onUpdate != nil {
			onUpdate(out)
		}
		last = out.Status
		if out.Status == "done" || out.Status == "failed" {
			return out, nil
		}
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		case <-t.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	url := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &StatusError{Method: method, URL: url, Code: res.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out != nil {
		return json.NewDecoder(res.Body).Decode(out)
	}
	return nil
}
