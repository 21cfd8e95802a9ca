package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestGenerateContent(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"model":"llama3.2:3b","response":" {\"education\":\"\"} ","done":true}`))
	}))
	defer srv.Close()

	g := New(Options{URL: srv.URL, Temperature: 0.1, Format: "json"}, zap.NewNop())

	out, err := g.GenerateContent(context.Background(), "system prompt", "text")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if out != `{"education":""}` {
		t.Fatalf("unexpected output: %q", out)
	}
	if got.Model != DefaultModel || got.System != "system prompt" || got.Prompt != "text" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Stream {
		t.Fatalf("expected streaming to be disabled")
	}
	if got.Format != "json" || got.Options.Temperature != 0.1 {
		t.Fatalf("unexpected options: %+v", got)
	}
}

func TestGenerateContentErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		payload string
	}{
		{name: "bad status", status: http.StatusInternalServerError, payload: `{"error":"boom"}`},
		{name: "model error", status: http.StatusOK, payload: `{"error":"model not found"}`},
		{name: "empty response", status: http.StatusOK, payload: `{"response":"  ","done":true}`},
		{name: "not json", status: http.StatusOK, payload: `<html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			g := New(Options{URL: srv.URL}, nil)
			if _, err := g.GenerateContent(context.Background(), "", "text"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGenerateContentHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	g := New(Options{URL: srv.URL}, zap.NewNop())
	if _, err := g.GenerateContent(ctx, "", "text"); err == nil {
		t.Fatal("expected context error")
	}
}
