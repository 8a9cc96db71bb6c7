package port

import "github.com/armory-tools/amr/internal/domain"

// CredentialStore persists per-repository credentials.
type CredentialStore interface {
	// Load returns the credential stored for the base URL, or
	// domain.ErrCredentialNotFound.
	Load(baseURL string) (domain.RepositoryCredential, error)

	// Save upserts a credential by its base URL.
	Save(cred domain.RepositoryCredential) error
}
