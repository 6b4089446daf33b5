package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/syntree/pkg/errors"
	"github.com/matzehuels/syntree/pkg/layout"
)

// Settings are the editor preferences read from syntree.toml.
//
//	level_gap = 60.0
//	sibling_gap = 20.0
//	animation = 0.25
//	store = "redis://localhost:6379/0"
type Settings struct {
	LevelGap   float64 `toml:"level_gap"`
	SiblingGap float64 `toml:"sibling_gap"`
	// Animation is the edge animation duration in seconds. Zero disables it.
	Animation float64 `toml:"animation"`
	// Store is a store location as accepted by store.Open. Empty means a
	// file store in the user data directory.
	Store string `toml:"store"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		LevelGap:   layout.DefaultLevelGap,
		SiblingGap: layout.DefaultSiblingGap,
	}
}

// LoadSettings reads path over the defaults. An empty path means
// syntree.toml in the config directory, which may be missing. Unknown keys
// are rejected.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return s, nil
		}
		path = filepath.Join(dir, settingsFile)
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return s, nil
		}
		return s, errors.Wrap(errors.ErrCodeInvalidPath, err, "settings file %s", path)
	}

	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return s, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse settings %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return s, errors.New(errors.ErrCodeInvalidInput, "unknown settings in %s: %s", path, strings.Join(keys, ", "))
	}
	return s, s.Validate()
}

// Validate reports settings no layout can use.
func (s Settings) Validate() error {
	switch {
	case s.LevelGap <= 0:
		return errors.New(errors.ErrCodeInvalidInput, "level_gap must be positive, got %v", s.LevelGap)
	case s.SiblingGap < 0:
		return errors.New(errors.ErrCodeInvalidInput, "sibling_gap must not be negative, got %v", s.SiblingGap)
	case s.Animation < 0:
		return errors.New(errors.ErrCodeInvalidInput, "animation must not be negative, got %v", s.Animation)
	}
	return nil
}

// Layout returns the tree layout for these settings.
func (s Settings) Layout() layout.Tidy {
	return layout.Tidy{LevelGap: s.LevelGap, SiblingGap: s.SiblingGap}
}

// StoreLocation returns Store, or the default file store directory.
func (s Settings) StoreLocation() string {
	if s.Store != "" {
		return s.Store
	}
	dir, err := dataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "documents")
}
