package cloudinary

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/school-directory/internal/config"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Store uploads school images through the Cloudinary upload API.
type Store struct {
	http      *resty.Client
	cloudName string
	apiKey    string
	apiSecret string
	now       func() time.Time
}

func NewStore(cfg *config.Config) *Store {
	return newStore(cfg, defaultBaseURL)
}

func newStore(cfg *config.Config, baseURL string) *Store {
	return &Store{
		http:      resty.New().SetBaseURL(baseURL).SetTimeout(30 * time.Second),
		cloudName: cfg.CloudinaryCloud,
		apiKey:    cfg.CloudinaryKey,
		apiSecret: cfg.CloudinarySecret,
		now:       time.Now,
	}
}

// Upload sends r as an image whose public id is key without its extension and
// returns the secure delivery URL.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, _ string) (string, error) {
	if s.cloudName == "" || s.apiKey == "" || s.apiSecret == "" {
		return "", fmt.Errorf("cloudinary credentials missing")
	}
	params := map[string]string{
		"public_id": strings.TrimSuffix(key, path.Ext(key)),
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	}
	form := map[string]string{
		"api_key":   s.apiKey,
		"signature": sign(params, s.apiSecret),
	}
	for k, v := range params {
		form[k] = v
	}

	var out uploadResponse
	var apiErr errorResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetFileReader("file", path.Base(key), r).
		SetFormData(form).
		SetResult(&out).
		SetError(&apiErr).
		Post(fmt.Sprintf("/%s/image/upload", s.cloudName))
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("cloudinary upload: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}
	return out.SecureURL, nil
}

// sign computes the Cloudinary request signature: SHA-1 over the sorted
// key=value pairs joined by '&' with the API secret appended.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}
