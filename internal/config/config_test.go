package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		def       string
		shouldSet bool
		want      string
	}{
		{
			name:      "variable set",
			key:       "MEDLEY_TEST_GETENV",
			value:     "custom",
			def:       "default",
			shouldSet: true,
			want:      "custom",
		},
		{
			name: "variable not set",
			key:  "MEDLEY_TEST_GETENV_MISSING",
			def:  "default",
			want: "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				t.Setenv(tt.key, tt.value)
			}
			if got := getenv(tt.key, tt.def); got != tt.want {
				t.Errorf("getenv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   time.Duration
		want  time.Duration
	}{
		{name: "valid duration", value: "90s", def: time.Second, want: 90 * time.Second},
		{name: "invalid duration falls back", value: "banana", def: 3 * time.Second, want: 3 * time.Second},
		{name: "unset falls back", value: "", def: 7 * time.Second, want: 7 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "MEDLEY_TEST_DURATION"
			if tt.value != "" {
				t.Setenv(key, tt.value)
			} else {
				os.Unsetenv(key)
			}
			if got := mustDuration(key, tt.def); got != tt.want {
				t.Errorf("mustDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name  string
		value string
		def   bool
		want  bool
	}{
		{name: "true", value: "true", def: false, want: true},
		{name: "false", value: "false", def: true, want: false},
		{name: "garbage falls back", value: "maybe", def: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MEDLEY_TEST_BOOL", tt.value)
			if got := mustBool("MEDLEY_TEST_BOOL", tt.def); got != tt.want {
				t.Errorf("mustBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "example.com", want: []string{"example.com"}},
		{name: "spaces and quotes", input: ` "a.com" , 'b.com' ,c.com `, want: []string{"a.com", "b.com", "c.com"}},
		{name: "drops empty parts", input: "a.com,,b.com,", want: []string{"a.com", "b.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitAndTrim(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitAndTrim() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := &Config{DataDir: "data"}

	if got := cfg.CacheDBPath(); got != filepath.Join("data", "cache.db") {
		t.Errorf("CacheDBPath() = %v", got)
	}
	if got := cfg.CatalogDBPath(); got != filepath.Join("data", "item_db.db") {
		t.Errorf("CatalogDBPath() = %v", got)
	}
	if got := cfg.ThumbnailDir(); got != filepath.Join("data", "thumbnails") {
		t.Errorf("ThumbnailDir() = %v", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Clear anything the environment may carry for the keys we assert on.
	for _, key := range []string{
		"MEDLEY_LISTEN_PORT",
		"MEDLEY_DATA_DIR",
		"MEDLEY_PAGE_FETCH_TIMEOUT",
		"MEDLEY_IMAGE_FETCH_TIMEOUT",
		"MEDLEY_SPECIAL_THUMB_DOMAINS",
	} {
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %v, want :8080", cfg.ListenPort)
	}
	if cfg.DataDir != "data" {
		t.Errorf("DataDir = %v, want data", cfg.DataDir)
	}
	if cfg.PageFetchTimeout != 6*time.Second {
		t.Errorf("PageFetchTimeout = %v, want 6s", cfg.PageFetchTimeout)
	}
	if cfg.ImageFetchTimeout != 8*time.Second {
		t.Errorf("ImageFetchTimeout = %v, want 8s", cfg.ImageFetchTimeout)
	}
	if len(cfg.SpecialThumbDomains) != 0 {
		t.Errorf("SpecialThumbDomains = %v, want empty", cfg.SpecialThumbDomains)
	}
}
