package terminal

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPromptReadsCredentials(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	go func() {
		_, _ = w.WriteString("  alice \n s3cret \n")
		w.Close()
	}()

	var out bytes.Buffer
	p := NewPrompter(r, &out)

	cred, err := p.Prompt("https://armory.example.com")
	require.NoError(t, err)
	require.Equal(t, "https://armory.example.com", cred.URL)
	require.Equal(t, "alice", cred.Username)
	require.Equal(t, "s3cret", cred.Password)

	require.Contains(t, out.String(), "Enter username")
	require.Contains(t, out.String(), "Enter password")
}

func TestPromptFailsOnClosedInput(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	w.Close()
	defer r.Close()

	p := NewPrompter(r, &bytes.Buffer{})
	_, err = p.Prompt("https://armory.example.com")
	require.Error(t, err)
}
