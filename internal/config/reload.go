package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/smazurov/snapcam/internal/logging"
)

// Reloadable is the part of the config file applied while running. Capture
// settings are read once at startup and are not part of it.
type Reloadable struct {
	// AllowedUsers is [gateway] allowed_users.
	AllowedUsers []string
	// HasAllowedUsers is false when the file does not set allowed_users.
	// The live list is then kept as is.
	HasAllowedUsers bool
	// Logging is the [logging] table; keys other than level and format
	// are per-module levels.
	Logging logging.Config
}

// LoadReloadable reads the reloadable settings from the TOML file at path.
// Unlike LoadConfig, a missing file is an error.
func LoadReloadable(path string) (Reloadable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Reloadable{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Reloadable{}, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	r := Reloadable{
		Logging: logging.Config{Modules: make(map[string]string)},
	}

	if users, ok := getNestedValue(doc, "gateway.allowed_users").([]any); ok {
		r.HasAllowedUsers = true
		for _, u := range users {
			s, err := scalarString(u)
			if err != nil {
				return Reloadable{}, fmt.Errorf("gateway.allowed_users: %w", err)
			}
			r.AllowedUsers = append(r.AllowedUsers, s)
		}
	} else if getNestedValue(doc, "gateway.allowed_users") != nil {
		return Reloadable{}, errors.New("gateway.allowed_users: want array")
	}

	if section, ok := doc["logging"].(map[string]any); ok {
		for key, value := range section {
			s, ok := value.(string)
			if !ok {
				continue
			}
			switch key {
			case "level":
				r.Logging.Level = s
			case "format":
				r.Logging.Format = s
			default:
				r.Logging.Modules[key] = s
			}
		}
		if modules, ok := section["modules"].(map[string]any); ok {
			for module, value := range modules {
				if s, ok := value.(string); ok {
					r.Logging.Modules[module] = s
				}
			}
		}
	}

	return r, nil
}
