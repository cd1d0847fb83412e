// Package settings resolves which external entity types the talk schema
// binds its user and section foreign keys to.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/nasermirzaei89/env"
	"gopkg.in/yaml.v2"
)

const (
	DefaultUserEntityRef    = "account.User"
	DefaultSectionEntityRef = "section.Section"

	KeyUserEntityRef    = "AUTH_USER_MODEL"
	KeySectionEntityRef = "SECTION_MODEL"
)

type Settings struct {
	UserEntityRef    string
	SectionEntityRef string
}

func Defaults() Settings {
	return Settings{
		UserEntityRef:    DefaultUserEntityRef,
		SectionEntityRef: DefaultSectionEntityRef,
	}
}

// Source is a read-only view over project configuration.
type Source interface {
	Lookup(key string) (value string, ok bool)
}

// Resolve reads both entity refs from src. A nil src means the configuration
// source is unavailable and yields the defaults.
func Resolve(src Source) Settings {
	resolved := Defaults()

	if src == nil {
		return resolved
	}

	if value, ok := src.Lookup(KeyUserEntityRef); ok {
		resolved.UserEntityRef = value
	}

	if value, ok := src.Lookup(KeySectionEntityRef); ok {
		resolved.SectionEntityRef = value
	}

	return resolved
}

var ErrSourceUnavailable = errors.New("configuration source unavailable")

// FileSource is project configuration read from a YAML document of top-level keys.
// Keys other than the ones looked up may hold any YAML value.
type FileSource struct {
	values map[string]any
}

var _ Source = (*FileSource)(nil)

func LoadFile(path string) (*FileSource, error) {
	if path == "" {
		return nil, ErrSourceUnavailable
	}

	content, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("settings file %q: %w", path, ErrSourceUnavailable)
		}

		return nil, fmt.Errorf("failed to read settings file %q: %w", path, err)
	}

	values := make(map[string]any)

	err = yaml.Unmarshal(content, &values)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings file %q: %w", path, err)
	}

	return &FileSource{values: values}, nil
}

// Lookup only reports non-empty string scalars; other values count as unset.
func (src *FileSource) Lookup(key string) (string, bool) {
	value, ok := src.values[key].(string)
	if !ok || value == "" {
		return "", false
	}

	return value, true
}

// EnvSource looks keys up in the process environment. Empty values count as unset.
type EnvSource struct{}

var _ Source = EnvSource{}

func (EnvSource) Lookup(key string) (string, bool) {
	value := env.GetString(key, "")
	if value == "" {
		return "", false
	}

	return value, true
}

// Chain consults its sources in order; the first one defining a key wins.
type Chain []Source

var _ Source = Chain(nil)

func (chain Chain) Lookup(key string) (string, bool) {
	for _, src := range chain {
		if src == nil {
			continue
		}

		if value, ok := src.Lookup(key); ok {
			return value, true
		}
	}

	return "", false
}

// Load resolves the settings once for the process: environment over the
// settings file at path over the defaults.
func Load(path string) (Settings, error) {
	chain := Chain{EnvSource{}}

	fileSrc, err := LoadFile(path)
	switch {
	case err == nil:
		chain = append(chain, fileSrc)
	case errors.Is(err, ErrSourceUnavailable):
	default:
		return Settings{}, fmt.Errorf("failed to load settings file: %w", err)
	}

	return Resolve(chain), nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type InvalidEntityRefError struct {
	Ref string
}

func (err InvalidEntityRefError) Error() string {
	return fmt.Sprintf("invalid entity ref %q: expected \"app.Model\"", err.Ref)
}

// TableName maps an "app.Model" entity ref to its SQL table, e.g. "account.User" to "account_user".
func TableName(ref string) (string, error) {
	app, model, ok := strings.Cut(ref, ".")
	if !ok || !identifierPattern.MatchString(app) || !identifierPattern.MatchString(model) {
		return "", &InvalidEntityRefError{Ref: ref}
	}

	return strings.ToLower(app + "_" + model), nil
}
