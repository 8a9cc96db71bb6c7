// Package credfile stores repository credentials as a JSON document at
// ~/.amr/config.json, owner read/write only.
package credfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/armory-tools/amr/internal/domain"
	"github.com/armory-tools/amr/internal/port"
)

// configFile is the on-disk document shape.
type configFile struct {
	Repositories []domain.RepositoryCredential `json:"repositories"`
}

// Store implements port.CredentialStore on top of an afero filesystem.
type Store struct {
	fs   afero.Fs
	path string
}

// Ensure Store implements port.CredentialStore
var _ port.CredentialStore = (*Store)(nil)

// NewStore creates a credential store backed by the given filesystem
// and file path.
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path}
}

// DefaultPath returns ~/.amr/config.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".amr", "config.json"), nil
}

// Load returns the credential stored for baseURL, or
// domain.ErrCredentialNotFound when the file or the entry is missing.
func (s *Store) Load(baseURL string) (domain.RepositoryCredential, error) {
	var zero domain.RepositoryCredential

	doc, err := s.read()
	if err != nil {
		return zero, err
	}

	for _, repo := range doc.Repositories {
		if repo.URL == baseURL {
			return repo, nil
		}
	}

	return zero, fmt.Errorf("%w: %s", domain.ErrCredentialNotFound, baseURL)
}

// Save upserts the credential by its URL: an existing entry for the
// same URL is replaced, otherwise the entry is appended. The file is
// written with owner-only permissions.
func (s *Store) Save(cred domain.RepositoryCredential) error {
	doc, err := s.read()
	if err != nil {
		if !errors.Is(err, domain.ErrCredentialNotFound) {
			return err
		}
		doc = &configFile{}
	}

	found := false
	for i := range doc.Repositories {
		if doc.Repositories[i].URL == cred.URL {
			doc.Repositories[i] = cred
			found = true
			break
		}
	}
	if !found {
		doc.Repositories = append(doc.Repositories, cred)
	}

	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential file: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, content, 0o600); err != nil {
		return fmt.Errorf("failed to write credential file: %w", err)
	}
	// WriteFile honors umask on creation; force owner-only on rewrite.
	if err := s.fs.Chmod(s.path, 0o600); err != nil {
		return fmt.Errorf("failed to restrict credential file permissions: %w", err)
	}

	return nil
}

// read loads and decodes the whole document. A missing file maps to
// domain.ErrCredentialNotFound so Load and Save can both recover.
func (s *Store) read() (*configFile, error) {
	content, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: credential file %s does not exist", domain.ErrCredentialNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var doc configFile
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse credential file %s: %w", s.path, err)
	}

	return &doc, nil
}
