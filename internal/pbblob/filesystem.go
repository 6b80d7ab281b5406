package pbblob

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
)

// filesystemClient stores blobs as files under a base directory, with keys mapping to relative paths.
type filesystemClient struct {
	basePath string
}

// NewFilesystemClient creates a client rooted at basePath, creating the directory if needed. A leading ~ is
// expanded to the home directory.
func NewFilesystemClient(basePath string) (Client, error) {
	if basePath == "" {
		return nil, errors.New("blob storage path must be specified")
	}

	expanded, err := homedir.Expand(basePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to expand blob storage path '%s'", basePath)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve blob storage path '%s'", basePath)
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create blob storage directory '%s'", abs)
	}

	return &filesystemClient{basePath: abs}, nil
}

func (f *filesystemClient) fullPath(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}

	p := filepath.Join(f.basePath, filepath.FromSlash(key))
	if p != f.basePath && !strings.HasPrefix(p, f.basePath+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}

	return p, nil
}

func (f *filesystemClient) Put(_ context.Context, input PutInput) error {
	p, err := f.fullPath(input.Key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return errors.Wrap(err, "failed to create blob directory")
	}

	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, input.Data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write blob")
	}

	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "failed to move blob into place")
	}

	return nil
}

func (f *filesystemClient) Get(_ context.Context, key string) ([]byte, error) {
	p, err := f.fullPath(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, errors.Wrap(err, "failed to read blob")
	}

	return data, nil
}

func (f *filesystemClient) Exists(_ context.Context, key string) (bool, error) {
	p, err := f.fullPath(key)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrap(err, "failed to stat blob")
	}

	return !info.IsDir(), nil
}

func (f *filesystemClient) Delete(_ context.Context, key string) error {
	p, err := f.fullPath(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "failed to delete blob")
	}

	return nil
}

var _ Client = (*filesystemClient)(nil)
