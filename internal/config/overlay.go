// config/overlay.go
package config

import (
	"os"
	"strconv"
	"strings"
)

// OverlayEnv applies credential/rate-limit overrides from the environment.
// SCRAPSTER_API_KEYS holds comma-separated key:engine tuples; a single
// SCRAPSTER_API_KEY / SCRAPSTER_ENGINE_ID pair is also honored.
func OverlayEnv(cfg *Config) {
	if raw := os.Getenv("SCRAPSTER_API_KEYS"); raw != "" {
		if pairs := ParseCredentialPairs(raw); len(pairs) > 0 {
			cfg.Search.Credentials = pairs
		}
	}

	key := os.Getenv("SCRAPSTER_API_KEY")
	eng := os.Getenv("SCRAPSTER_ENGINE_ID")
	if key != "" && eng != "" {
		cfg.Search.Credentials = append([]CredentialPair{{APIKey: key, EngineID: eng}}, cfg.Search.Credentials...)
	}

	if raw := os.Getenv("SCRAPSTER_RATE_LIMIT_DELAY"); raw != "" {
		if d, err := strconv.ParseFloat(raw, 64); err == nil && d >= 0 {
			cfg.Search.RateLimitDelay = d
		}
	}

	if raw := os.Getenv("SCRAPSTER_ROTATE_KEYS"); raw != "" {
		cfg.Search.RotateKeys = strings.EqualFold(raw, "true") || raw == "1"
	}
}

// ParseCredentialPairs splits "key:engine,key:engine" into pairs.
// Malformed tuples are skipped rather than failing the whole list.
func ParseCredentialPairs(raw string) []CredentialPair {
	var out []CredentialPair
	for _, tuple := range strings.Split(raw, ",") {
		tuple = strings.TrimSpace(tuple)
		if tuple == "" {
			continue
		}
		key, eng, ok := strings.Cut(tuple, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		eng = strings.TrimSpace(eng)
		if key == "" || eng == "" {
			continue
		}
		out = append(out, CredentialPair{APIKey: key, EngineID: eng})
	}
	return out
}
