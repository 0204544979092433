package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

// KeyringMedium implements Medium on top of the operating system keyring.
// Each collection is stored as a single keyring item.
type KeyringMedium struct {
	ring keyring.Keyring
}

// OpenKeyringMedium opens the system keyring under serviceName. fileDir is
// used when only the encrypted file backend is available.
func OpenKeyringMedium(serviceName, fileDir string) (*KeyringMedium, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt(serviceName + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewKeyringMedium(ring), nil
}

// NewKeyringMedium wraps an already opened keyring.
func NewKeyringMedium(ring keyring.Keyring) *KeyringMedium {
	return &KeyringMedium{ring: ring}
}

// Get retrieves the item stored under key.
func (m *KeyringMedium) Get(_ context.Context, key string) (string, bool, error) {
	item, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting keyring item %q: %w", key, err)
	}
	return string(item.Data), true, nil
}

// Set stores value under key, replacing any previous item.
func (m *KeyringMedium) Set(_ context.Context, key, value string) error {
	err := m.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "notekeeper " + key,
	})
	if err != nil {
		return fmt.Errorf("setting keyring item %q: %w", key, err)
	}
	return nil
}
