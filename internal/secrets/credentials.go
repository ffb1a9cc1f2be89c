package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"scrapster-engine/internal/config"
)

const (
	// “Service” groups the app’s secrets in the OS keychain.
	KeyringService = "scrapster"
)

func searchAccount(engineID string) string {
	return fmt.Sprintf("scrapster:cse:%s", engineID)
}

// GetSearchKey looks up the API key stored for a search engine ID.
func GetSearchKey(engineID string) (string, error) {
	if strings.TrimSpace(engineID) == "" {
		return "", errors.New("engine id is empty")
	}
	key, err := keyring.Get(KeyringService, searchAccount(engineID))
	if err != nil || strings.TrimSpace(key) == "" {
		return "", errors.New("search API key not found (set it in keychain or via config)")
	}
	return key, nil
}

func SetSearchKey(engineID, apiKey string) error {
	if strings.TrimSpace(engineID) == "" {
		return errors.New("engine id is empty")
	}
	if strings.TrimSpace(apiKey) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, searchAccount(engineID), apiKey)
}

func DeleteSearchKey(engineID string) error {
	if strings.TrimSpace(engineID) == "" {
		return errors.New("engine id is empty")
	}
	return keyring.Delete(KeyringService, searchAccount(engineID))
}

// FillFromKeyring resolves credential pairs whose api_key was left out
// of the config file. Pairs the keychain cannot resolve stay empty and
// are caught by validation.
func FillFromKeyring(cfg config.Config) config.Config {
	for i, c := range cfg.Search.Credentials {
		if strings.TrimSpace(c.APIKey) != "" {
			continue
		}
		if key, err := GetSearchKey(c.EngineID); err == nil {
			cfg.Search.Credentials[i].APIKey = key
		}
	}
	return cfg
}
