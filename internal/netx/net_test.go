package netx

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchImage_DataURL(t *testing.T) {
	png := []byte("\x89PNG fake")
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	got, err := FetchImage(context.Background(), nil, src, 1024)
	require.NoError(t, err)
	assert.Equal(t, png, got)

	_, err = FetchImage(context.Background(), nil, src, 3)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = FetchImage(context.Background(), nil, "data:text/plain,hello", 1024)
	assert.Error(t, err)

	_, err = FetchImage(context.Background(), nil, "data:image/png;base64,!!!", 1024)
	assert.Error(t, err)
}

func TestFetchImage_HTTP(t *testing.T) {
	body := []byte("image-bytes")

	t.Run("success", func(t *testing.T) {
		var gotMethod string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			_, _ = w.Write(body)
		}))
		defer ts.Close()

		got, err := FetchImage(context.Background(), ts.Client(), ts.URL+"/qr/1/x.png?X-Amz-Signature=abc", 1024)
		require.NoError(t, err)
		assert.Equal(t, body, got)
		assert.Equal(t, http.MethodGet, gotMethod)
	})

	t.Run("non-200", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("expired"))
		}))
		defer ts.Close()

		_, err := FetchImage(context.Background(), ts.Client(), ts.URL, 1024)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "download failed: 403"), err.Error())
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("too large", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write(body)
		}))
		defer ts.Close()

		_, err := FetchImage(context.Background(), ts.Client(), ts.URL, 4)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		_, err := FetchImage(context.Background(), nil, ts.URL, 1024)
		assert.Error(t, err)
	})
}
