// Package storage keeps uploaded images in an object store and hands back
// the public URL the portal links to.
package storage

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

var ErrNoObject = errors.New("storage: no object")

type Store interface {
	// Put stores data under key and returns the object's public URL.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	// Key maps a public URL produced by Put back to its object key. It
	// reports false for URLs that do not point into this store.
	Key(publicURL string) (string, bool)
}

// keyUnder returns the path of rawURL below base when both share scheme
// and host. Empty, "." and ".." segments are refused.
func keyUnder(base, rawURL string) (string, bool) {
	b, err := url.Parse(base)
	if err != nil || b.Host == "" {
		return "", false
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.User != nil || u.Host == "" {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Scheme != b.Scheme || !strings.EqualFold(u.Host, b.Host) {
		return "", false
	}

	prefix := strings.TrimRight(b.Path, "/") + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, prefix)
	if key == "" {
		return "", false
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", false
		}
	}
	return key, true
}
