// Package yaml loads modsdump configuration files.
package yaml

import (
	"errors"
	"os"
	"time"

	"github.com/fwojciec/modsdump"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk configuration. Zero values mean "not set".
type File struct {
	Site          SiteConfig    `yaml:"site"`
	Workers       int           `yaml:"workers"`
	MaxStalePages int           `yaml:"max_stale_pages"`
	Timeout       time.Duration `yaml:"timeout"`
	RateLimit     float64       `yaml:"rate_limit"`
	Retries       int           `yaml:"retries"`
	UserAgent     string        `yaml:"user_agent"`
	DB            string        `yaml:"db"`
}

// SiteConfig overrides parts of the default site layout.
type SiteConfig struct {
	Origin           string   `yaml:"origin"`
	CatalogPath      string   `yaml:"catalog_path"`
	PageParam        string   `yaml:"page_param"`
	ChooseFileMarker string   `yaml:"choose_file_marker"`
	Extensions       []string `yaml:"extensions"`
}

// Load reads the configuration file at path.
// If the file does not exist, it returns ErrConfigNotFound.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, modsdump.Errorf(modsdump.EIO, "read config: %v", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, modsdump.Errorf(modsdump.EINVALID, "parse %s: %v", path, err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate returns an error if the file contains invalid values.
func (f *File) Validate() error {
	switch {
	case f.Workers < 0:
		return modsdump.Errorf(modsdump.EINVALID, "workers must not be negative")
	case f.MaxStalePages < 0:
		return modsdump.Errorf(modsdump.EINVALID, "max_stale_pages must not be negative")
	case f.Timeout < 0:
		return modsdump.Errorf(modsdump.EINVALID, "timeout must not be negative")
	case f.RateLimit < 0:
		return modsdump.Errorf(modsdump.EINVALID, "rate_limit must not be negative")
	case f.Retries < 0:
		return modsdump.Errorf(modsdump.EINVALID, "retries must not be negative")
	}
	return nil
}

// ApplySite overlays the non-empty site fields onto site.
func (f *File) ApplySite(site *modsdump.Site) {
	c := f.Site
	if c.Origin != "" {
		site.Origin = c.Origin
	}
	if c.CatalogPath != "" {
		site.CatalogPath = c.CatalogPath
	}
	if c.PageParam != "" {
		site.PageParam = c.PageParam
	}
	if c.ChooseFileMarker != "" {
		site.ChooseFileMarker = c.ChooseFileMarker
	}
	if len(c.Extensions) > 0 {
		site.Extensions = append([]string(nil), c.Extensions...)
	}
}
