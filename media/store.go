// Package media stores report photos on disk and reclaims them when a
// report is permanently deleted.
package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

var (
	// ErrNotStored signals a ref that does not resolve to a stored file.
	ErrNotStored = errors.New("media: not stored")
	// ErrUnsupportedImage signals bytes that do not decode as an image.
	ErrUnsupportedImage = errors.New("media: unsupported image data")
)

// Store is the photo storage boundary consumed by the moderation service.
type Store interface {
	Save(ctx context.Context, data []byte) (ref string, err error)
	Remove(ctx context.Context, ref string) error
}

// DiskStore keeps photos under an uploads directory, re-encoded as JPEG and
// downscaled so no edge exceeds maxEdge pixels. Refs are URL paths of the
// form /uploads/<name>.jpg, which is also how they are served.
type DiskStore struct {
	dir     string
	maxEdge int
	log     *zap.Logger
}

const refPrefix = "/uploads/"

func NewDiskStore(dir string, maxEdge int, log *zap.Logger) *DiskStore {
	if maxEdge <= 0 {
		maxEdge = 1600
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DiskStore{dir: dir, maxEdge: maxEdge, log: log}
}

// Dir returns the directory served under /uploads.
func (s *DiskStore) Dir() string { return s.dir }

func (s *DiskStore) Save(ctx context.Context, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	b := img.Bounds()
	if b.Dx() > s.maxEdge || b.Dy() > s.maxEdge {
		if b.Dx() >= b.Dy() {
			img = imaging.Resize(img, s.maxEdge, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, s.maxEdge, imaging.Lanczos)
		}
	}

	name := fmt.Sprintf("photo_%d_%s.jpg", time.Now().UnixNano(), randString(6))
	dst := filepath.Join(s.dir, name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("media: create upload dir: %w", err)
	}
	if err := imaging.Save(img, dst, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("media: save %s: %w", name, err)
	}

	s.log.Info("photo stored", zap.String("ref", refPrefix+name), zap.Int("bytes_in", len(data)))
	return refPrefix + name, nil
}

func (s *DiskStore) Remove(ctx context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, refPrefix)
	if !ok || name == "" || strings.Contains(name, "/") {
		// Refs we never issued (external URLs, base64 blobs from the old
		// client) have no file to reclaim.
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotStored
		}
		return fmt.Errorf("media: remove %s: %w", name, err)
	}
	return nil
}

// randString returns n hex characters from a crypto-safe source.
func randString(n int) string {
	b := make([]byte, (n+1)/2)
	_, _ = rand.Read(b)
	s := hex.EncodeToString(b)
	if len(s) > n {
		s = s[:n]
	}
	return s
}
