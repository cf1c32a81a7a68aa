package task

import (
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "forgelite"
	keyringUser    = "agent-api-key"
)

// ResolveAPIKey returns the agent API key, preferring the environment over
// the system keyring. A missing key is not an error; the agent may carry
// its own credentials.
func ResolveAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		return key, nil
	}
	key, err := keyring.Get(keyringService, keyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return "", nil
		}
		return "", fmt.Errorf("failed to read API key from keyring: %w", err)
	}
	return key, nil
}

// StoreAPIKey saves the agent API key in the system keyring.
func StoreAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("API key cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringUser, key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	return nil
}

// DeleteAPIKey removes the agent API key from the system keyring.
func DeleteAPIKey() error {
	if err := keyring.Delete(keyringService, keyringUser); err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}
	return nil
}
