// Package secret persists opaque credentials outside the journal database,
// one file per key under the app data directory.
package secret

import (
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"
)

// KeyAPICredential is the one logical secret the advice client needs.
const KeyAPICredential = "openai_api_key"

// Store is a file-backed secret store. A nil value deletes; absence is
// distinguishable from an empty string.
type Store struct {
	d *diskv.Diskv
}

// Open creates a Store rooted at dir/secrets.
func Open(dir string) (*Store, error) {
	base := filepath.Join(dir, "secrets")
	if err := os.MkdirAll(base, 0o700); err != nil {
		return nil, err
	}
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     base,
		CacheSizeMax: 64 * 1024,
	})}, nil
}

// Set stores value under key. A nil value removes the key.
func (s *Store) Set(key string, value *string) error {
	if value == nil {
		err := s.d.Erase(key)
		if err != nil && os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return s.d.Write(key, []byte(*value))
}

// Get returns the stored value, or nil when the key is absent.
func (s *Store) Get(key string) (*string, error) {
	if !s.d.Has(key) {
		return nil, nil
	}
	raw, err := s.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	v := string(raw)
	return &v, nil
}
