package helpers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "sjsage522/jobharvester/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(5*time.Second, 1000)
}

func TestFetch(t *testing.T) {
	// Create a test server
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check that headers are set
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		assert.NotEmpty(t, r.Header.Get("referer"))

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html><body>Bonjour, monde !</body></html>"))
	}))
	defer server.Close()

	reader, err := newTestFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Bonjour, monde !")
}

func TestFetchNonUTF8(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
		w.WriteHeader(http.StatusOK)
		// "Intérim" with é encoded as a single latin-1 byte
		w.Write([]byte("<html><body>Int\xe9rim</body></html>"))
	}))
	defer server.Close()

	reader, err := newTestFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Intérim")
}

func TestFetchNoCharsetIsUTF8(t *testing.T) {
	raw := []byte("<html><body>Int\xe9rim, Intérim</body></html>")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write(raw)
	}))
	defer server.Close()

	reader, err := newTestFetcher().Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	// no windows-1252 guess: the stray byte stays as it was
	assert.Equal(t, raw, body)
	assert.Equal(t, 1, strings.Count(string(body), "é"))
}

func TestDecodeUTF8(t *testing.T) {
	raw := []byte("Int\xe9rim")

	for _, contentType := range []string{"", "text/html", "text/html; charset=", "not a media type;;"} {
		reader, err := DecodeUTF8(raw, contentType)
		require.NoError(t, err)
		body, err := io.ReadAll(reader)
		require.NoError(t, err)
		assert.Equal(t, raw, body, contentType)
	}

	reader, err := DecodeUTF8(raw, "text/html; charset=ISO-8859-1")
	require.NoError(t, err)
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "Intérim", string(body))
}

func TestFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestFetcher().Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 500")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNetwork))

	// Test with rate limiting
	serverRateLimited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer serverRateLimited.Close()

	_, err = newTestFetcher().Fetch(context.Background(), serverRateLimited.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeRateLimit))
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestFetcher().Fetch(ctx, "http://127.0.0.1:1/")
	assert.Error(t, err)
}

func TestFetchInvalidURL(t *testing.T) {
	_, err := newTestFetcher().Fetch(context.Background(), "http://invalid.url.that.does.not.exist")
	assert.Error(t, err)
}

func TestGetSplitPart(t *testing.T) {
	part, err := GetSplitPart("a:b:c", ":", 1)
	assert.NoError(t, err)
	assert.Equal(t, "b", part)

	_, err = GetSplitPart("a:b:c", ":", 3)
	assert.Error(t, err)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "2500", DigitsOnly("De 2 500 "))
	assert.Equal(t, "", DigitsOnly("par mois"))
}
