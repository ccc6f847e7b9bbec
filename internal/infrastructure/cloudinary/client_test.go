package cloudinary

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/school-directory/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{CloudinaryCloud: "demo", CloudinaryKey: "key", CloudinarySecret: "secret"}
}

func TestSign_SortsParams(t *testing.T) {
	a := sign(map[string]string{"timestamp": "1", "public_id": "x"}, "s")
	b := sign(map[string]string{"public_id": "x", "timestamp": "1"}, "s")
	assert.Equal(t, a, b)
	assert.Len(t, a, 40)
	assert.NotEqual(t, a, sign(map[string]string{"public_id": "x", "timestamp": "1"}, "other"))
}

func TestUpload_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "school-images/01ABC-logo", r.FormValue("public_id"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))
		assert.Equal(t, sign(map[string]string{"public_id": "school-images/01ABC-logo", "timestamp": "1700000000"}, "secret"), r.FormValue("signature"))
		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		body, _ := io.ReadAll(f)
		assert.Equal(t, "png-bytes", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"public_id":"school-images/01ABC-logo","secure_url":"https://res.cloudinary.com/demo/image/upload/school-images/01ABC-logo.png"}`))
	}))
	defer srv.Close()

	s := newStore(testConfig(), srv.URL)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	url, err := s.Upload(context.Background(), "school-images/01ABC-logo.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/school-images/01ABC-logo.png", url)
}

func TestUpload_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer srv.Close()

	s := newStore(testConfig(), srv.URL)
	_, err := s.Upload(context.Background(), "a.png", strings.NewReader("x"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestUpload_MissingCredentials(t *testing.T) {
	s := newStore(&config.Config{}, "http://unused")
	_, err := s.Upload(context.Background(), "a.png", strings.NewReader("x"), "image/png")
	assert.Error(t, err)
}
