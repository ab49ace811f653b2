package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up in the working directory
const ConfigFileName = ".pretend.yaml"

// Config holds the configuration for a CLI run
type Config struct {
	// Directories is the list of directories to scan; "dir/..." is recursive
	Directories []string

	// ModuleName overrides the module path read from go.mod
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool

	// Check reports stale generated files instead of writing them
	Check bool

	// Raw skips goimports formatting of generated files
	Raw bool

	OpenAPI OpenAPIConfig
}

// OpenAPIConfig configures the openapi command
type OpenAPIConfig struct {
	Title   string `yaml:"title"`
	Version string `yaml:"version"`
	Format  string `yaml:"format"`
	Server  string `yaml:"server"`

	// Output is the destination file; empty writes to stdout
	Output string `yaml:"-"`
}

// FileConfig is the content of .pretend.yaml
type FileConfig struct {
	Module  string        `yaml:"module"`
	Output  string        `yaml:"output"`
	Verbose bool          `yaml:"verbose"`
	OpenAPI OpenAPIConfig `yaml:"openapi"`
}

// LoadFileConfig reads .pretend.yaml from dir. A missing file yields an
// empty configuration.
func LoadFileConfig(dir string) (*FileConfig, error) {
	path := filepath.Join(dir, ConfigFileName)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &FileConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return &fc, nil
}

// Apply fills every unset field of c from the file configuration
func (c *Config) Apply(fc *FileConfig) {
	if fc == nil {
		return
	}
	if c.ModuleName == "" {
		c.ModuleName = fc.Module
	}
	c.Verbose = c.Verbose || fc.Verbose

	o := &c.OpenAPI
	if o.Output == "" {
		o.Output = fc.Output
	}
	if o.Title == "" {
		o.Title = fc.OpenAPI.Title
	}
	if o.Version == "" {
		o.Version = fc.OpenAPI.Version
	}
	if o.Format == "" {
		o.Format = fc.OpenAPI.Format
	}
	if o.Server == "" {
		o.Server = fc.OpenAPI.Server
	}
}
