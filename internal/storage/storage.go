// Package storage keeps uploaded post images on the local filesystem.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageSize caps a single upload.
const MaxImageSize = 5 << 20

var (
	ErrNotImage = errors.New("upload a valid image")
	ErrTooLarge = errors.New("image is too large")
)

// ImageStore saves images and returns the path relative to the media root,
// which is what gets persisted on the post.
type ImageStore interface {
	Save(r io.Reader) (string, error)
	Remove(name string) error
	Root() string
}

type localStore struct {
	root string
	dir  string
}

// NewLocal stores files under root/posts, creating the directory if needed.
func NewLocal(root string) (ImageStore, error) {
	if err := os.MkdirAll(filepath.Join(root, "posts"), 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &localStore{root: root, dir: "posts"}, nil
}

func (s *localStore) Root() string { return s.root }

func (s *localStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", ErrNotImage
	}

	name := path.Join(s.dir, uuid.NewString()+mt.Extension())
	f, err := os.OpenFile(filepath.Join(s.root, filepath.FromSlash(name)), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return name, nil
}

func (s *localStore) Remove(name string) error {
	clean := path.Clean("/" + name)
	if !strings.HasPrefix(clean, "/"+s.dir+"/") {
		return fmt.Errorf("refusing to remove %q", name)
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
