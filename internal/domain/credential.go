package domain

// RepositoryCredential is a stored username/password pair for one
// armory repository, keyed by its base URL.
type RepositoryCredential struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}
