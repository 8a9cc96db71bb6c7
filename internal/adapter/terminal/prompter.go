// Package terminal provides the interactive collaborators of the
// downloader: credential prompting and progress rendering.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/armory-tools/amr/internal/domain"
	"github.com/armory-tools/amr/internal/port"
)

// Prompter reads credentials from the controlling terminal. Password
// input is read with echo disabled when stdin is a terminal.
type Prompter struct {
	in  *os.File
	out io.Writer
}

// Ensure Prompter implements port.CredentialPrompter
var _ port.CredentialPrompter = (*Prompter)(nil)

// NewPrompter creates a prompter reading from in and writing prompts
// to out.
func NewPrompter(in *os.File, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Prompt asks for a username and password for the repository.
func (p *Prompter) Prompt(baseURL string) (domain.RepositoryCredential, error) {
	var zero domain.RepositoryCredential

	fmt.Fprintf(p.out, "No stored credentials for %s\n", baseURL)

	reader := bufio.NewReader(p.in)

	fmt.Fprint(p.out, "Enter username: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return zero, fmt.Errorf("failed to read username: %w", err)
	}

	fmt.Fprint(p.out, "Enter password: ")
	var password string
	if term.IsTerminal(int(p.in.Fd())) {
		raw, err := term.ReadPassword(int(p.in.Fd()))
		if err != nil {
			return zero, fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(p.out)
		password = string(raw)
	} else {
		line, err := reader.ReadString('\n')
		if err != nil {
			return zero, fmt.Errorf("failed to read password: %w", err)
		}
		password = line
	}

	return domain.RepositoryCredential{
		URL:      strings.TrimSpace(baseURL),
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
	}, nil
}
