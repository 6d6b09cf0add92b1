// Package theme loads theme bundles: a manifest, default configuration,
// templates and a static asset tree, all read through an fs.FS so built-in
// themes can be embedded and external ones read from disk.
package theme

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"sync"

	"git.home.luguber.info/inful/sassdoc-theme/internal/config"
	"git.home.luguber.info/inful/sassdoc-theme/internal/foundation/errors"
)

// Theme is a loaded theme bundle.
type Theme interface {
	Name() string
	Files() fs.FS
	Manifest() Manifest
	// Defaults returns a private copy of the default configuration.
	Defaults() (map[string]any, error)
}

// Bundle is the fs.FS backed Theme.
type Bundle struct {
	manifest Manifest
	files    fs.FS

	defaultsOnce sync.Once
	defaults     map[string]any
	defaultsErr  error
}

// Load reads and validates the manifest at the root of files.
func Load(files fs.FS) (*Bundle, error) {
	raw, err := fs.ReadFile(files, ManifestFile)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTheme, "read theme manifest").Fatal().Build()
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTheme, "load theme manifest").
			Fatal().
			UserAction().
			Build()
	}
	for _, tpl := range m.Templates {
		if _, err := fs.Stat(files, tpl.Source); err != nil {
			return nil, errors.WrapError(err, errors.CategoryTheme, "template listed in manifest is missing").
				Fatal().
				WithContext("theme", m.Name).
				WithContext("template", tpl.Source).
				Build()
		}
	}
	return &Bundle{manifest: m, files: files}, nil
}

// MustLoad is Load for embedded themes registered from init.
func MustLoad(files fs.FS) *Bundle {
	b, err := Load(files)
	if err != nil {
		panic(fmt.Sprintf("theme: %v", err))
	}
	return b
}

// LoadDir loads an external theme from a directory.
func LoadDir(path string) (*Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryNotFound, "theme directory not found").
			WithContext("path", path).
			Build()
	}
	if !info.IsDir() {
		return nil, errors.ThemeError("theme path is not a directory").WithContext("path", path).Build()
	}
	return Load(os.DirFS(path))
}

func (b *Bundle) Name() string       { return b.manifest.Name }
func (b *Bundle) Files() fs.FS       { return b.files }
func (b *Bundle) Manifest() Manifest { return b.manifest }

// Defaults parses the defaults file on first use. A theme without one has
// empty defaults.
func (b *Bundle) Defaults() (map[string]any, error) {
	b.defaultsOnce.Do(func() {
		raw, err := fs.ReadFile(b.files, b.manifest.Defaults)
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				b.defaults = map[string]any{}
				return
			}
			b.defaultsErr = errors.WrapError(err, errors.CategoryTheme, "read theme defaults").Fatal().Build()
			return
		}
		b.defaults, b.defaultsErr = config.Decode(raw)
		if b.defaultsErr != nil {
			b.defaultsErr = errors.WrapError(b.defaultsErr, errors.CategoryTheme, "decode theme defaults").
				Fatal().
				WithContext("theme", b.manifest.Name).
				Build()
		}
	})
	if b.defaultsErr != nil {
		return nil, b.defaultsErr
	}
	return config.CloneMap(b.defaults), nil
}

var (
	regMu sync.RWMutex
	reg   = map[string]Theme{}
)

// Register adds a theme. Duplicate names are ignored.
func Register(t Theme) {
	if t == nil {
		return
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, ok := reg[t.Name()]; !ok {
		reg[t.Name()] = t
	}
}

// Get returns a registered theme.
func Get(name string) (Theme, error) {
	regMu.RLock()
	defer regMu.RUnlock()
	t, ok := reg[name]
	if !ok {
		return nil, errors.NewError(errors.CategoryNotFound, "unknown theme").
			WithContext("theme", name).
			WithContext("available", namesLocked()).
			UserAction().
			Build()
	}
	return t, nil
}

// Names lists registered themes in sorted order.
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(reg))
	for n := range reg {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the registered theme called ref, or loads ref as a
// directory when no such theme is registered.
func Resolve(ref string) (Theme, error) {
	if t, err := Get(ref); err == nil {
		return t, nil
	}
	if _, statErr := os.Stat(ref); statErr == nil {
		return LoadDir(ref)
	}
	return Get(ref)
}
