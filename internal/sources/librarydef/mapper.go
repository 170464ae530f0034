package librarydef

import (
	"path/filepath"

	"medley/internal/domain"
	"medley/internal/logger"
)

// Mapper converts the parsed definition file into domain libraries.
type Mapper struct {
	log logger.Logger
}

// NewMapper creates a new library mapper.
func NewMapper(log logger.Logger) *Mapper {
	return &Mapper{log: log}
}

// MapLibraries converts parsed entries to domain libraries. Entries without
// a name or root are skipped with a warning rather than failing the load;
// one bad line must not take every library offline.
func (m *Mapper) MapLibraries(file libraryFile) []domain.Library {
	libraries := make([]domain.Library, 0, len(file.Libraries))
	for _, entry := range file.Libraries {
		if entry.Name == "" || entry.Path == "" {
			m.log.Warn("skipping invalid library entry",
				logger.String("name", entry.Name),
				logger.String("path", entry.Path))
			continue
		}

		source := entry.Source
		if source != domain.LibrarySourceInternal && source != domain.LibrarySourceExternal {
			if source != "" {
				m.log.Warn("unknown library source, using external",
					logger.String("name", entry.Name),
					logger.String("source", source))
			}
			source = domain.LibrarySourceExternal
		}

		root, err := filepath.Abs(entry.Path)
		if err != nil {
			m.log.Warn("skipping library with unresolvable root",
				logger.String("name", entry.Name),
				logger.Error(err))
			continue
		}

		libraries = append(libraries, domain.Library{
			Name:   entry.Name,
			Root:   root,
			Source: source,
		})
	}
	return libraries
}

// LoadLibraries is the one-call path used at startup and on reload.
func LoadLibraries(path string, log logger.Logger) ([]domain.Library, error) {
	file, err := NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	return NewMapper(log).MapLibraries(file), nil
}
