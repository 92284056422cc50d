package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Disk stores objects on the local filesystem and signs download URLs with
// an HMAC so the file handler can verify them without shared state.
type Disk struct {
	baseURL string
	root    string
	secret  []byte
}

var _ Storage = (*Disk)(nil)

func NewDisk(baseURL, root string, secret []byte) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &Disk{
		baseURL: strings.TrimRight(baseURL, "/"),
		root:    root,
		secret:  secret,
	}, nil
}

func (d *Disk) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", fmt.Errorf("empty object key")
	}
	return filepath.Join(d.root, clean), nil
}

func (d *Disk) Upload(_ context.Context, key string, content io.Reader, _ string, upsert bool) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	if !upsert {
		if _, err = os.Stat(p); err == nil {
			return fmt.Errorf("object %s already exists", key)
		}
	}
	if err = os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, content)
	return err
}

func (d *Disk) Open(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := d.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

func (d *Disk) List(_ context.Context, folder string) ([]string, error) {
	p, err := d.path(folder)
	if err != nil {
		return nil, err
	}
	var keys []string
	err = filepath.WalkDir(p, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return keys, err
}

func (d *Disk) Remove(_ context.Context, keys []string) error {
	for _, key := range keys {
		p, err := d.path(key)
		if err != nil {
			return err
		}
		if err = os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (d *Disk) SignedURL(key string, expiresIn time.Duration) (string, error) {
	expires := time.Now().Add(expiresIn).Unix()
	sig := d.sign(key, expires)
	return fmt.Sprintf("%s/files/%s?expires=%d&signature=%s",
		d.baseURL, url.PathEscape(key), expires, sig), nil
}

func (d *Disk) PublicURL(key string) string {
	return fmt.Sprintf("%s/public/%s", d.baseURL, url.PathEscape(key))
}

// Verify checks a signed-URL signature and its expiry, returning false for
// tampered or expired links.
func (d *Disk) Verify(key, signature string, expires int64) bool {
	if time.Now().Unix() > expires {
		return false
	}
	expected := d.sign(key, expires)
	return hmac.Equal([]byte(signature), []byte(expected))
}

func (d *Disk) sign(key string, expires int64) string {
	mac := hmac.New(sha256.New, d.secret)
	mac.Write([]byte(key))
	mac.Write([]byte(":"))
	mac.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
