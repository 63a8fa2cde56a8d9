package config

import "github.com/zalando/go-keyring"

const (
	// KeyringService is the service name used in the OS keyring.
	KeyringService = "relay-bot"

	keyringAPIKeyName = "gemini_api_key"
)

// KeyringAPIKey returns the API key stored in the OS keyring, or an empty string.
func KeyringAPIKey() string {
	val, err := keyring.Get(KeyringService, keyringAPIKeyName)
	if err != nil {
		return ""
	}
	return val
}

// StoreAPIKey saves the API key in the OS keyring.
func StoreAPIKey(apiKey string) error {
	return keyring.Set(KeyringService, keyringAPIKeyName, apiKey)
}

// DeleteAPIKey removes the API key from the OS keyring.
func DeleteAPIKey() error {
	return keyring.Delete(KeyringService, keyringAPIKeyName)
}
