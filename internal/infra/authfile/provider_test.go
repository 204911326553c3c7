package authfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/journey/internal/domain/remote"
)

func TestProvider_missing_file_means_signed_out(t *testing.T) {
	p := New(t.TempDir())

	_, err := p.Current(context.Background())
	var noCreds remote.NoCredentials
	assert.ErrorAs(t, err, &noCreds)
}

func TestProvider_reads_credentials(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.json"),
		[]byte(`{"host": "https://lms.example.edu", "ws_token": "tok", "user_id": 7}`), 0600))

	p := New(dir)
	creds, err := p.Current(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "https://lms.example.edu", creds.Host)
	assert.Equal(t, "tok", creds.WsToken)
	assert.EqualValues(t, 7, creds.UserID)
}

func TestProvider_empty_token_means_signed_out(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.json"),
		[]byte(`{"host": "https://lms.example.edu", "ws_token": ""}`), 0600))

	p := New(dir)
	_, err := p.Current(context.Background())
	var noCreds remote.NoCredentials
	assert.ErrorAs(t, err, &noCreds)
}

func TestProvider_picks_up_sign_in_without_restart(t *testing.T) {
	dir := t.TempDir()
	p := New(dir)

	_, err := p.Current(context.Background())
	var noCreds remote.NoCredentials
	require.ErrorAs(t, err, &noCreds)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "auth.json"),
		[]byte(`{"host": "https://lms.example.edu", "ws_token": "tok", "user_id": 7}`), 0600))

	creds, err := p.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", creds.WsToken)
}
