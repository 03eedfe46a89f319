// Package signature fingerprints source content and build configuration so
// the rebuild pipeline can skip work when nothing that affects the published
// store has changed. An equal signature means skipping is safe; there is no
// time-based expiry.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Version tags the build algorithm. Bump whenever jitter, parsing, or store
// layout changes in a way that should invalidate published stores; a change
// without a bump is an undetectable correctness hazard.
const Version = "jittered-load-v1.0.0"

// Config captures every setting that affects the published store output.
type Config struct {
	Version       string
	RadiusMeters  float64
	KeepOriginals bool
	PreferredLat  string
	PreferredLon  string
	Salt          string
	Table         string
}

// fingerprint renders the config as a stable string. Only a hash of the salt
// is included, never the salt itself, so signatures can be logged safely.
func (c Config) fingerprint() string {
	version := c.Version
	if version == "" {
		version = Version
	}
	saltHash := sha256.Sum256([]byte(c.Salt))
	parts := []string{
		version,
		fmt.Sprintf("RADIUS_METERS=%g", c.RadiusMeters),
		fmt.Sprintf("KEEP_ORIGINALS=%t", c.KeepOriginals),
		fmt.Sprintf("PREFERRED_LAT=%s", c.PreferredLat),
		fmt.Sprintf("PREFERRED_LON=%s", c.PreferredLon),
		fmt.Sprintf("JITTER_SALT_HASH=%s", hex.EncodeToString(saltHash[:])),
		fmt.Sprintf("TABLE_NAME=%s", c.Table),
	}
	return strings.Join(parts, "|")
}

// Compute streams the source file through sha256 and combines it with the
// config fingerprint into one opaque hex signature.
func Compute(sourcePath string, cfg Config) (string, error) {
	f, err := os.Open(sourcePath)
	if err != nil {
		return "", eris.Wrap(err, "signature: open source")
	}
	defer f.Close() //nolint:errcheck

	content := sha256.New()
	if _, err := io.Copy(content, f); err != nil {
		return "", eris.Wrap(err, "signature: hash source")
	}

	h := sha256.New()
	h.Write([]byte(hex.EncodeToString(content.Sum(nil))))
	h.Write([]byte("|"))
	h.Write([]byte(cfg.fingerprint()))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ShouldRebuild reports whether a republish is necessary: signatures differ,
// the store is missing, or the caller forces it.
func ShouldRebuild(current, stored string, storeExists, force bool) bool {
	if force {
		return true
	}
	if !storeExists {
		return true
	}
	return current != stored
}

// Load reads the stored signature artifact. A missing file returns "" so a
// first build always proceeds.
func Load(path string) (string, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", eris.Wrap(err, "signature: read")
	}
	return strings.TrimSpace(string(b)), nil
}

// Save persists the signature artifact next to the published store. Called
// only after a successful publish so a crash cannot leave a stale signature
// pointing at a broken store.
func Save(path, sig string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "signature: create dir")
	}
	return eris.Wrap(os.WriteFile(path, []byte(sig+"\n"), 0o644), "signature: write")
}
