package thumbcache

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strings"
)

// Matches the og:image meta tag in either attribute order the wild produces.
var ogImageRe = regexp.MustCompile(`(?i)<meta[^>]+property=['"]og:image['"][^>]*content=['"]([^'"]+)`)

// extractOGImage returns the og:image URL from an HTML document, or the
// empty string when no tag is present.
func extractOGImage(doc string) string {
	m := ogImageRe.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return html.UnescapeString(m[1])
}

// matchesSpecialDomain reports whether the URL's host contains any of the
// configured domains.
func matchesSpecialDomain(rawURL string, domains []string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, d := range domains {
		if d != "" && strings.Contains(host, strings.ToLower(d)) {
			return true
		}
	}
	return false
}

// specialSiteThumbnail fetches a page and resolves its og:image URL,
// relative references included.
func (s *Service) specialSiteThumbnail(ctx context.Context, pageURL string) (string, error) {
	doc, err := s.fetchPage(ctx, pageURL)
	if err != nil {
		return "", err
	}
	imageURL := extractOGImage(doc)
	if imageURL == "" {
		return "", nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return imageURL, nil
	}
	ref, err := url.Parse(imageURL)
	if err != nil {
		return imageURL, nil
	}
	return base.ResolveReference(ref).String(), nil
}
