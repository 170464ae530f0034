// Package librarydef loads the YAML file declaring which filesystem roots
// the crawler maintains catalogs for.
package librarydef

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the library definition YAML.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the given definition file.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the library definition file.
func (l *Loader) Load() (libraryFile, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return libraryFile{}, fmt.Errorf("failed to read library file: %w", err)
	}

	var file libraryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return libraryFile{}, fmt.Errorf("failed to parse library yaml: %w", err)
	}
	return file, nil
}
