package authfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/roach88/journey/internal/domain/remote"
)

const fileName = "auth.json"

// storedCredentials is the on-disk shape the login flow writes. The daemon
// only ever reads it.
type storedCredentials struct {
	Host    string `json:"host"`
	WsToken string `json:"ws_token"`
	UserID  int64  `json:"user_id"`
}

// Provider reads credentials from auth.json in the data dir, re-reading the
// file on every call so a sign-in or sign-out by the login flow is picked up
// without restarting the daemon.
type Provider struct {
	path string
	mu   sync.Mutex
}

func New(dataDir string) *Provider {
	return &Provider{path: filepath.Join(dataDir, fileName)}
}

// Current implements remote.CredentialProvider. A missing or empty file
// means signed out, reported as remote.NoCredentials.
func (p *Provider) Current(ctx context.Context) (*remote.Credentials, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil, remote.NoCredentials{}
	}
	if err != nil {
		return nil, err
	}

	var stored storedCredentials
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	if stored.Host == "" || stored.WsToken == "" {
		return nil, remote.NoCredentials{}
	}
	return &remote.Credentials{
		Host:    stored.Host,
		WsToken: stored.WsToken,
		UserID:  stored.UserID,
	}, nil
}
