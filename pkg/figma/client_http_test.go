package figma

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL + "/v1/"), WithRetryBackoff(time.Millisecond)}, opts...)
	return NewClient("figd_test", opts...)
}

func TestGetImagesQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/ABC" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("X-Figma-Token"); got != "figd_test" {
			t.Errorf("X-Figma-Token = %q", got)
		}
		q := r.URL.Query()
		if q.Get("ids") != "1:2,3:4" || q.Get("format") != "svg" || q.Get("svg_include_id") != "true" {
			t.Errorf("query = %v", q)
		}
		if q.Has("scale") {
			t.Errorf("svg render must not send a scale")
		}
		fmt.Fprint(w, `{"err":null,"images":{"1:2":"https://cdn/1.svg","3:4":null}}`)
	})

	resp, err := c.GetImages(context.Background(), "ABC", []string{"1:2", "3:4"}, "svg", 2)
	if err != nil {
		t.Fatalf("GetImages() error = %v", err)
	}
	if resp.Images["1:2"] != "https://cdn/1.svg" || resp.Images["3:4"] != "" {
		t.Errorf("images = %v", resp.Images)
	}

	if _, err := c.GetImages(context.Background(), "ABC", nil, "png", 1); err == nil {
		t.Error("expected error for empty node list")
	}
}

func TestGetImagesRenderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("scale"); got != "1.5" {
			t.Errorf("scale = %q", got)
		}
		fmt.Fprint(w, `{"err":"Render timeout","images":{}}`)
	})

	if _, err := c.GetImages(context.Background(), "ABC", []string{"1:2"}, "png", 1.5); err == nil {
		t.Error("expected render error")
	}
}

func TestBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer figd_test" {
			t.Errorf("Authorization = %q", got)
		}
		if r.Header.Get("X-Figma-Token") != "" {
			t.Error("bearer client must not send X-Figma-Token")
		}
		fmt.Fprint(w, `{"name":"App","document":{"id":"0:0","type":"DOCUMENT"}}`)
	}, WithBearer())

	file, err := c.GetFile(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("GetFile() error = %v", err)
	}
	if file.Name != "App" || file.Document.Type != NodeTypeDocument {
		t.Errorf("file = %+v", file)
	}
}

func TestRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"nodes":{"1:2":{"document":{"id":"1:2","type":"FRAME"}}}}`)
	})

	resp, err := c.GetFileNodes(context.Background(), "ABC", []string{"1:2"})
	if err != nil {
		t.Fatalf("GetFileNodes() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
	if resp.Nodes["1:2"] == nil || resp.Nodes["1:2"].Document.Type != NodeTypeFrame {
		t.Errorf("nodes = %+v", resp.Nodes)
	}
}

func TestAPIErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"status":403,"err":"Invalid token"}`)
	})

	_, err := c.GetLocalVariables(context.Background(), "ABC")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestServerErrorGivesUp(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.GetFile(context.Background(), "ABC")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("error = %v", err)
	}
	if calls.Load() != defaultMaxRetries {
		t.Errorf("calls = %d, want %d", calls.Load(), defaultMaxRetries)
	}
}

func TestContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WithRetryBackoff(time.Hour))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.GetFile(ctx, "ABC"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}
