package librarydef

// libraryEntry is one entry of the library definition YAML.
type libraryEntry struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Source string `yaml:"source"`
}

// libraryFile is the root structure of the library definition file.
type libraryFile struct {
	Libraries []libraryEntry `yaml:"libraries"`
}
