// Package store persists application data: the versioned settings JSON
// blob and optional user-supplied YAML files such as extra known services.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"spendlens/internal/logging"
	"spendlens/internal/parsererror"
	"spendlens/internal/settings"
	"spendlens/internal/subscriptions"

	"gopkg.in/yaml.v3"
)

var log = logging.GetLogger()

// SetLogger allows setting a custom logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// SettingsStore manages loading and saving of the settings blob and
// auxiliary config files.
type SettingsStore struct {
	SettingsFile string
	ServicesFile string
}

// NewSettingsStore creates a store over the given file paths. Empty paths
// fall back to defaults under the user config directory.
func NewSettingsStore(settingsFile, servicesFile string) *SettingsStore {
	return &SettingsStore{
		SettingsFile: settingsFile,
		ServicesFile: servicesFile,
	}
}

// resolvePath finds a config file, checking the given name, ./config/ and
// the user's ~/.config/spendlens directory.
func (s *SettingsStore) resolvePath(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		return filename, nil
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "spendlens", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadSettings reads the settings blob and applies the migration chain.
// A missing or corrupt file falls back to defaults; load never fails.
func (s *SettingsStore) LoadSettings() settings.Settings {
	filename := s.SettingsFile
	if filename == "" {
		filename = "settings.json"
	}

	filePath, err := s.resolvePath(filename)
	if err != nil {
		log.WithField(logging.FieldFile, filename).Debug("Settings file not found, using defaults")
		return settings.Default()
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.WithError(&parsererror.StoreError{Path: filePath, Op: "read", Err: err}).
			Warn("Failed to read settings, using defaults")
		return settings.Default()
	}

	var loaded settings.Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		log.WithError(&parsererror.StoreError{Path: filePath, Op: "parse", Err: err}).
			Warn("Corrupt settings file, using defaults")
		return settings.Default()
	}

	migrated := settings.Migrate(loaded)
	if migrated.Version != loaded.Version {
		log.WithFields(
			logging.Field{Key: "from_version", Value: loaded.Version},
			logging.Field{Key: "to_version", Value: migrated.Version},
		).Info("Migrated settings schema")
	}
	return migrated
}

// SaveSettings writes the settings blob, creating parent directories as
// needed.
func (s *SettingsStore) SaveSettings(cfg settings.Settings) error {
	filename := s.SettingsFile
	if filename == "" {
		filename = "settings.json"
	}

	filePath, err := s.resolvePath(filename)
	if err != nil {
		if filepath.IsAbs(filename) {
			filePath = filename
		} else if homeDir, herr := os.UserHomeDir(); herr == nil {
			filePath = filepath.Join(homeDir, ".config", "spendlens", filename)
		} else {
			filePath = filename
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return &parsererror.StoreError{Path: filePath, Op: "mkdir", Err: err}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return &parsererror.StoreError{Path: filePath, Op: "marshal", Err: err}
	}
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return &parsererror.StoreError{Path: filePath, Op: "write", Err: err}
	}

	log.WithField(logging.FieldFile, filePath).Debug("Saved settings")
	return nil
}

// LoadKnownServices reads user-defined subscription services from YAML.
// A missing file returns an empty slice, not an error.
func (s *SettingsStore) LoadKnownServices() ([]subscriptions.KnownService, error) {
	filename := s.ServicesFile
	if filename == "" {
		filename = "services.yaml"
	}

	filePath, err := s.resolvePath(filename)
	if err != nil {
		log.WithField(logging.FieldFile, filename).Debug("No user services file found")
		return []subscriptions.KnownService{}, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &parsererror.StoreError{Path: filePath, Op: "read", Err: err}
	}

	var doc struct {
		Services []subscriptions.KnownService `yaml:"services"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &parsererror.StoreError{Path: filePath, Op: "parse", Err: err}
	}

	log.WithField(logging.FieldCount, len(doc.Services)).Debug("Loaded user services")
	return doc.Services, nil
}
