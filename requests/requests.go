// Package requests wraps fasthttp with the small GET/POST surface the
// rest of the library needs.
package requests

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"
)

var client = &fasthttp.Client{
	ReadTimeout:  30 * time.Second,
	WriteTimeout: 30 * time.Second,
}

// Get performs a GET request and returns the body and status code.
func Get(ctx *context.Context, url string, headers map[string]string) ([]byte, int, error) {
	return do(ctx, fasthttp.MethodGet, url, headers, nil)
}

// Post performs a POST request with the given payload and returns the body
// and status code.
func Post(ctx *context.Context, url string, headers map[string]string, payload []byte) ([]byte, int, error) {
	return do(ctx, fasthttp.MethodPost, url, headers, payload)
}

func do(ctx *context.Context, method, url string, headers map[string]string, payload []byte) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if payload != nil {
		req.SetBody(payload)
	}

	deadline := time.Now().Add(30 * time.Second)
	if ctx != nil {
		if d, ok := (*ctx).Deadline(); ok {
			deadline = d
		}
	}

	if err := client.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, resp.StatusCode(), nil
}
