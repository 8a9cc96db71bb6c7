package port

import "github.com/armory-tools/amr/internal/domain"

// CredentialPrompter asks the user for a username and password for the
// given repository base URL. Implementations block until input is
// available (or fail if no interactive input exists).
type CredentialPrompter interface {
	Prompt(baseURL string) (domain.RepositoryCredential, error)
}
