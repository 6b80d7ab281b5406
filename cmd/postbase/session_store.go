package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/Salehmangrio/postbase/internal/backend"
)

const defaultSessionFile = "~/.postbase/session"

// fileSessionStore keeps the session secret in a file readable only by the current user.
type fileSessionStore struct {
	path string
}

// newFileSessionStore creates a store at path, or at ~/.postbase/session when path is empty.
func newFileSessionStore(path string) (*fileSessionStore, error) {
	if path == "" {
		path = defaultSessionFile
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to expand session file path '%s'", path)
	}

	return &fileSessionStore{path: expanded}, nil
}

func (s *fileSessionStore) Get(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read session file")
	}

	return strings.TrimSpace(string(data)), nil
}

func (s *fileSessionStore) Set(_ context.Context, secret string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create session directory")
	}

	if err := os.WriteFile(s.path, []byte(secret), 0o600); err != nil {
		return errors.Wrap(err, "failed to write session file")
	}
	return nil
}

func (s *fileSessionStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove session file")
	}
	return nil
}

var _ backend.SessionStore = (*fileSessionStore)(nil)
