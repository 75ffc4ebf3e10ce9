package resolver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"cratedig/internal/log"
)

func TestProbeAcceptsImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
	}))
	defer srv.Close()

	v := NewVerifier(log.NullLogger())
	assert.True(t, v.Probe(context.Background(), srv.URL))
}

func TestProbeRejectsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	v := NewVerifier(log.NullLogger())
	assert.False(t, v.Probe(context.Background(), srv.URL))
}

func TestProbeRejectsHTMLPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>sign in to view</html>"))
	}))
	defer srv.Close()

	v := NewVerifier(log.NullLogger())
	assert.False(t, v.Probe(context.Background(), srv.URL))
}

func TestProbeFallsBackToGET(t *testing.T) {
	var sawGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet = true
		w.Header().Set("Content-Type", "image/png")
	}))
	defer srv.Close()

	v := NewVerifier(log.NullLogger())
	assert.True(t, v.Probe(context.Background(), srv.URL))
	assert.True(t, sawGet)
}

func TestProbeUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	v := NewVerifier(log.NullLogger())
	assert.False(t, v.Probe(context.Background(), srv.URL))
}
