package factgen

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/sakif/weather-dashboard/internal/apperror"
	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestGenerate_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Reindeer can see ultraviolet light, which helps them spot lichen in snow.  "}}]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("sk-test", srv.URL, testLogger())
	fact, err := c.Generate(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "Reindeer can see ultraviolet light, which helps them spot lichen in snow.", fact,
		"completion content must be whitespace-trimmed")

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-3.5-turbo", gotBody["model"])
	assert.Equal(t, 0.7, gotBody["temperature"])
	assert.Equal(t, float64(50), gotBody["max_tokens"])
}

func TestGenerate_MissingKey(t *testing.T) {
	c := New("", testLogger())

	_, err := c.Generate(context.Background())
	if err == nil {
		t.Fatal("Generate() with no API key should fail")
	}
	if !errors.Is(err, apperror.ErrConfig) {
		t.Errorf("Generate() error = %v, want ErrConfig", err)
	}
}

func TestGenerate_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Rate limit reached"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewWithBaseURL("sk-test", srv.URL, testLogger())
	_, err := c.Generate(context.Background())
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("Generate() error = %v, want ErrUpstream", err)
	}
}

func TestGenerate_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("sk-test", srv.URL, testLogger())
	_, err := c.Generate(context.Background())
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("Generate() error = %v, want ErrUpstream", err)
	}
}

func TestGenerate_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("sk-test", srv.URL, testLogger())
	_, err := c.Generate(context.Background())
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("Generate() error = %v, want ErrUpstream", err)
	}
}

func TestGenerate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewWithBaseURL("sk-test", srv.URL, testLogger())
	_, err := c.Generate(context.Background())
	if !errors.Is(err, apperror.ErrUpstream) {
		t.Errorf("Generate() error = %v, want ErrUpstream", err)
	}
}
