package brain

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPAdapterParsesJSONObject(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hola desde el brain"}`))
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL, time.Second)
	got, err := a.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hola"}},
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "hola desde el brain" {
		t.Fatalf("Complete() = %q", got)
	}
}

func TestHTTPAdapterAcceptsPlainText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("respuesta plana"))
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL, time.Second)
	got, err := a.Complete(context.Background(), CompletionRequest{})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "respuesta plana" {
		t.Fatalf("Complete() = %q", got)
	}
}

func TestHTTPAdapterTagsUpstreamStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL, time.Second)
	_, err := a.Complete(context.Background(), CompletionRequest{})

	var bErr *Error
	if !errors.As(err, &bErr) {
		t.Fatalf("Complete() error = %v, want *brain.Error", err)
	}
	if bErr.Reason != ReasonUpstreamStatus {
		t.Fatalf("Reason = %q, want %q", bErr.Reason, ReasonUpstreamStatus)
	}
}

func TestHTTPAdapterTagsTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL, 20*time.Millisecond)
	_, err := a.Complete(context.Background(), CompletionRequest{})

	var bErr *Error
	if !errors.As(err, &bErr) {
		t.Fatalf("Complete() error = %v, want *brain.Error", err)
	}
	if bErr.Reason != ReasonTimeout {
		t.Fatalf("Reason = %q, want %q", bErr.Reason, ReasonTimeout)
	}
}

func TestHTTPAdapterRejectsObjectWithoutText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer ts.Close()

	a := NewHTTPAdapter(ts.URL, time.Second)
	_, err := a.Complete(context.Background(), CompletionRequest{})

	var bErr *Error
	if !errors.As(err, &bErr) || bErr.Reason != ReasonMalformed {
		t.Fatalf("Complete() error = %v, want malformed_response", err)
	}
}
