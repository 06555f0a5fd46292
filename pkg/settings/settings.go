// Package settings holds process-wide string properties.
//
// A property set through Set wins over the environment. When a property is
// not set, Get falls back to an environment variable derived from its name
// (`vertxweb.environment` becomes `VERTXWEB_ENVIRONMENT`).
package settings

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	// EnvironmentKey names the property selecting the runtime mode.
	EnvironmentKey = "vertxweb.environment"
	// LogLevelKey names the property holding the default log level.
	LogLevelKey = "webtempl.log.level"
)

var (
	mu         sync.RWMutex
	properties = map[string]string{}
)

// Set stores a property value for the whole process.
func Set(key, value string) {
	mu.Lock()
	defer mu.Unlock()
	properties[key] = value
}

// Unset removes a property so lookups fall back to the environment.
func Unset(key string) {
	mu.Lock()
	defer mu.Unlock()
	delete(properties, key)
}

// Lookup returns the property value and whether it was defined, either
// directly or through the environment.
func Lookup(key string) (string, bool) {
	mu.RLock()
	value, ok := properties[key]
	mu.RUnlock()
	if ok {
		return value, true
	}
	return os.LookupEnv(EnvName(key))
}

// Get returns the property value or the empty string.
func Get(key string) string {
	value, _ := Lookup(key)
	return value
}

// GetOr returns the property value or fallback when undefined or blank.
func GetOr(key, fallback string) string {
	if value := strings.TrimSpace(Get(key)); value != "" {
		return value
	}
	return fallback
}

// EnvName maps a dotted property name to its environment variable.
func EnvName(key string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	return strings.ToUpper(replacer.Replace(strings.TrimSpace(key)))
}

// LoadDotEnv loads `.env` style files into the process environment. Missing
// default `.env` is not an error; explicitly named files must exist.
// Variables already present in the environment are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("settings: load env files: %w", err)
	}
	return nil
}
