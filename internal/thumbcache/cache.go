// Package thumbcache resolves and persists thumbnails for bookmarked pages.
// Thumbnails are content addressed: the same source and identifier always
// map to the same media ID and cache file.
package thumbcache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"medley/internal/domain"
	"medley/internal/logger"
	"medley/internal/mediapath"
)

// Store is the subset of the cache store the service needs.
type Store interface {
	UpsertMediaItem(item domain.MediaItem) error
	GetMediaSubType(mediaID string) (string, error)
	GetThumbnail(mediaID string) (*domain.Thumbnail, error)
	UpsertThumbnail(t domain.Thumbnail) error
	DeleteThumbnail(mediaID string) error
}

// Service fetches, stores and serves back bookmark thumbnails.
type Service struct {
	store          Store
	thumbDir       string
	specialDomains []string
	pageClient     *http.Client
	imageClient    *http.Client
	log            logger.Logger
}

// New builds a thumbnail service writing files under thumbDir.
func New(store Store, thumbDir string, specialDomains []string, pageTimeout, imageTimeout time.Duration, log logger.Logger) *Service {
	return &Service{
		store:          store,
		thumbDir:       thumbDir,
		specialDomains: specialDomains,
		pageClient:     &http.Client{Timeout: pageTimeout},
		imageClient:    &http.Client{Timeout: imageTimeout},
		log:            log,
	}
}

// ComputeMediaID derives the stable content address for a media item.
// The identifier is the URL when present, the title otherwise, falling
// back to a fixed token so even bare entries hash deterministically.
func ComputeMediaID(source, url, title string) string {
	identifier := url
	if identifier == "" {
		identifier = title
	}
	if identifier == "" {
		identifier = "bookmark"
	}
	sum := sha1.Sum([]byte(source + "|" + identifier))
	return hex.EncodeToString(sum[:])
}

// CacheBookmarkThumbnail registers a bookmark and returns the serving route
// for its thumbnail together with the resolved sub type, both empty-string
// when absent. A YouTube URL records its sub type at registration, before
// any network traffic, so the classification survives a failed fetch. A
// cached file short-circuits the network entirely; an unreachable or
// unrecognized URL degrades to the empty route rather than failing the
// caller.
func (s *Service) CacheBookmarkThumbnail(ctx context.Context, url, title string, meta map[string]string) (string, string, error) {
	mediaID := ComputeMediaID(domain.SourceBookmark, url, title)

	videoID := ExtractYouTubeID(url)
	subType := ""
	if videoID != "" {
		subType = domain.SubTypeYouTube
	} else {
		// Keep a previously resolved sub_type across re-registrations.
		stored, err := s.store.GetMediaSubType(mediaID)
		if err != nil {
			return "", "", err
		}
		subType = stored
	}

	item := domain.MediaItem{
		ID:          mediaID,
		Source:      domain.SourceBookmark,
		OriginalURL: url,
		Title:       title,
		MediaType:   domain.MediaTypeBookmark,
		SubType:     subType,
		Metadata:    meta,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.store.UpsertMediaItem(item); err != nil {
		return "", "", err
	}

	if route, ok, err := s.cachedRoute(mediaID); err != nil {
		return "", "", err
	} else if ok {
		return route, subType, nil
	}

	if url == "" {
		return "", subType, nil
	}

	imageURL := ""
	if videoID != "" {
		imageURL = youtubeThumbnailURL(videoID)
	} else if matchesSpecialDomain(url, s.specialDomains) {
		found, err := s.specialSiteThumbnail(ctx, url)
		if err != nil {
			s.log.Warn("thumbnail resolution failed",
				logger.String("media_id", mediaID),
				logger.String("url", url),
				logger.Error(err))
			return "", subType, nil
		}
		if found != "" {
			imageURL = found
			if subType == "" {
				subType = domain.SubTypeSpecial
			}
		}
	}
	if imageURL == "" {
		return "", subType, nil
	}

	body, contentType, err := s.downloadImage(ctx, imageURL)
	if err != nil {
		s.log.Warn("thumbnail download failed",
			logger.String("media_id", mediaID),
			logger.String("image_url", imageURL),
			logger.Error(err))
		return "", subType, nil
	}

	if subType != item.SubType {
		item.SubType = subType
		item.UpdatedAt = time.Now().UTC()
		if err := s.store.UpsertMediaItem(item); err != nil {
			return "", "", err
		}
	}

	ext := inferExtension(contentType, imageURL)
	localPath, err := s.storeThumbnail(mediaID, ext, body)
	if err != nil {
		return "", "", err
	}

	if err := s.store.UpsertThumbnail(domain.Thumbnail{
		MediaID:   mediaID,
		LocalPath: localPath,
		FetchedAt: time.Now().UTC(),
		Source:    imageURL,
	}); err != nil {
		return "", "", err
	}

	return routeFor(localPath), subType, nil
}

// cachedRoute checks for a usable cached thumbnail. A database row whose
// file has been removed from disk is evicted and treated as a miss.
func (s *Service) cachedRoute(mediaID string) (string, bool, error) {
	thumb, err := s.store.GetThumbnail(mediaID)
	if err != nil {
		return "", false, err
	}
	if thumb == nil {
		return "", false, nil
	}
	if _, err := os.Stat(thumb.LocalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if delErr := s.store.DeleteThumbnail(mediaID); delErr != nil {
				return "", false, delErr
			}
			return "", false, nil
		}
		return "", false, err
	}
	return routeFor(thumb.LocalPath), true, nil
}

func (s *Service) storeThumbnail(mediaID, ext string, body []byte) (string, error) {
	if err := os.MkdirAll(s.thumbDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	localPath := filepath.Join(s.thumbDir, mediaID+"."+ext)
	if err := os.WriteFile(localPath, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write thumbnail file: %w", err)
	}
	return localPath, nil
}

func routeFor(localPath string) string {
	return mediapath.ServeImagePrefix + "/" + filepath.Base(localPath)
}
