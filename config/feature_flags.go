package config

import (
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages runtime toggles for optional parts of the bot. Every
// flag has a built-in default, can be set from the YAML file and can be
// overridden with FEATURE_<NAME> environment variables.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Conversation ===
	FeatureFuzzyKeywords = "conversation.fuzzy_keywords" // typo-tolerant keyword categories
	FeatureGenerator     = "conversation.generator"      // use the configured text generator

	// === Terminal ===
	FeatureRichInput = "chat.rich_input" // line editor when stdin is a terminal

	// === Storage ===
	FeatureFileWatch = "storage.file_watch" // reload the data file on external edits

	// === Alerts ===
	FeatureRedisPublish = "alerts.redis_publish" // fan reminder alerts out over Redis
	FeatureAlertLog     = "alerts.postgres_log"  // record delivered alerts in PostgreSQL

	// === Surfaces ===
	FeatureStatusAPI = "http.status_api" // read-only HTTP API
)

// LoadFeatureFlags loads feature flags from defaults and environment
// variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{features: make(map[string]*Feature)}
	ff.initializeDefaults()
	ff.loadFromEnvironment()
	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	defaults := []Feature{
		{Name: FeatureFuzzyKeywords, Description: "Match keyword categories with small typos", Enabled: true},
		{Name: FeatureGenerator, Description: "Ask the configured text generator before canned replies", Enabled: true},
		{Name: FeatureRichInput, Description: "Interactive line editor on a terminal", Enabled: true},
		{Name: FeatureFileWatch, Description: "Reload the data file when it changes on disk", Enabled: true},
		{Name: FeatureRedisPublish, Description: "Publish reminder alerts to Redis", Enabled: false},
		{Name: FeatureAlertLog, Description: "Log reminder alerts to PostgreSQL", Enabled: true},
		{Name: FeatureStatusAPI, Description: "Serve the read-only HTTP status API", Enabled: false},
	}
	for _, f := range defaults {
		ff.features[f.Name] = &f
	}
}

// loadFromEnvironment reads FEATURE_<NAME>=true|false. Malformed values are
// ignored.
func (ff *FeatureFlags) loadFromEnvironment() {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	for name, feature := range ff.features {
		val := os.Getenv(featureNameToEnvKey(name))
		if val == "" {
			continue
		}
		if b, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = b
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "storage.file_watch" -> "FEATURE_STORAGE_FILE_WATCH"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled reports whether the named feature is on. Unknown names are off.
// A nil receiver treats every feature as off.
func (ff *FeatureFlags) IsEnabled(name string) bool {
	if ff == nil {
		return false
	}
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[name]
	return ok && feature.Enabled
}

// SetEnabled switches a feature. Thread-safe for live updates.
func (ff *FeatureFlags) SetEnabled(name string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[name]
	if !ok {
		return ErrFeatureNotFound
	}
	feature.Enabled = enabled
	return nil
}

// EnableFeature enables a feature.
func (ff *FeatureFlags) EnableFeature(name string) error {
	return ff.SetEnabled(name, true)
}

// DisableFeature disables a feature.
func (ff *FeatureFlags) DisableFeature(name string) error {
	return ff.SetEnabled(name, false)
}

// GetAllFeatures returns copies of all features sorted by name.
func (ff *FeatureFlags) GetAllFeatures() []Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make([]Feature, 0, len(ff.features))
	for _, f := range ff.features {
		result = append(result, *f)
	}
	slices.SortFunc(result, func(a, b Feature) int { return strings.Compare(a.Name, b.Name) })
	return result
}

// --- Errors ---

var (
	ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
