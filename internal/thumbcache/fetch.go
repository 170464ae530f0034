package thumbcache

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"

	"medley/internal/domain"
)

// Remote sites routinely reject bare Go user agents, so requests carry a
// browser-like header set.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

func newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}
	return req, nil
}

// fetchPage retrieves an HTML document. Any non-200 status is an external
// service failure.
func (s *Service) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := newRequest(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid page URL: %v", domain.ErrExternalService, err)
	}
	resp, err := s.pageClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: page fetch failed: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: page fetch returned status %d", domain.ErrExternalService, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: page read failed: %v", domain.ErrExternalService, err)
	}
	return string(body), nil
}

// downloadImage retrieves image bytes. A 200 with an empty body still counts
// as a failure.
func (s *Service) downloadImage(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := newRequest(ctx, imageURL)
	if err != nil {
		return nil, "", fmt.Errorf("%w: invalid image URL: %v", domain.ErrExternalService, err)
	}
	resp, err := s.imageClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: image fetch failed: %v", domain.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("%w: image fetch returned status %d", domain.ErrExternalService, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: image read failed: %v", domain.ErrExternalService, err)
	}
	if len(body) == 0 {
		return nil, "", fmt.Errorf("%w: image fetch returned empty body", domain.ErrExternalService)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// knownImageExts is the set of extensions a thumbnail file may carry.
// Anything else, including image/* subtypes we cannot serve, defaults
// to jpg.
var knownImageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// inferExtension picks a file extension for a downloaded image: the response
// content type first, then the URL path, then jpg.
func inferExtension(contentType, imageURL string) string {
	if contentType != "" {
		if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
			if ext := strings.ToLower(strings.TrimPrefix(mediaType, "image/")); knownImageExts[ext] {
				return normalizeExt(ext)
			}
		}
	}
	if u, err := url.Parse(imageURL); err == nil {
		if ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), ".")); knownImageExts[ext] {
			return normalizeExt(ext)
		}
	}
	return "jpg"
}

func normalizeExt(ext string) string {
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}
