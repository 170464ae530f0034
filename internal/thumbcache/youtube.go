package thumbcache

import "strings"

// ExtractYouTubeID pulls the video ID out of a watch or short-form URL.
// Only watch URLs carry a v= parameter that names a video; a stray v= on
// a playlist or channel URL is not an ID. Returns the empty string when
// the URL is not a recognizable YouTube link.
func ExtractYouTubeID(rawURL string) string {
	if strings.Contains(rawURL, "youtube.com/watch") {
		if idx := strings.Index(rawURL, "v="); idx >= 0 {
			id := rawURL[idx+2:]
			if cut := strings.IndexAny(id, "&#"); cut >= 0 {
				id = id[:cut]
			}
			return id
		}
	}
	if idx := strings.Index(rawURL, "youtu.be/"); idx >= 0 {
		id := rawURL[idx+len("youtu.be/"):]
		if cut := strings.IndexAny(id, "?&#"); cut >= 0 {
			id = id[:cut]
		}
		return id
	}
	return ""
}

// youtubeThumbnailURL returns the stable high-quality still for a video ID.
func youtubeThumbnailURL(videoID string) string {
	return "https://img.youtube.com/vi/" + videoID + "/hqdefault.jpg"
}
