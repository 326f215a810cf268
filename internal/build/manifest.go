package build

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/eepbuilder/internal/eep"
	"git.home.luguber.info/inful/eepbuilder/internal/publisher"
)

// ManifestName is the manifest file written into the output directory.
const ManifestName = ".eepbuilder-manifest.json"

const manifestVersion = 1

// Manifest records what the last build produced.
type Manifest struct {
	Version      int              `json:"version"`
	RunID        string           `json:"run_id"`
	BuiltAt      time.Time        `json:"built_at"`
	SettingsHash string           `json:"settings_hash"`
	Entries      map[string]Entry `json:"entries"`
}

// Entry is the manifest record of one source.
type Entry struct {
	Fingerprint string `json:"fingerprint"`
	Page        string `json:"page"`
}

func newManifest(runID, settingsHash string) *Manifest {
	return &Manifest{
		Version:      manifestVersion,
		RunID:        runID,
		SettingsHash: settingsHash,
		Entries:      map[string]Entry{},
	}
}

// LoadManifest reads the manifest at path. A missing file yields (nil, nil).
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Version != manifestVersion {
		return nil, nil
	}
	if m.Entries == nil {
		m.Entries = map[string]Entry{}
	}
	return &m, nil
}

// Save writes the manifest atomically.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return publisher.WriteFileAtomic(path, append(data, '\n'))
}

// upToDate reports whether name was built from content with fingerprint fp
// under the same settings.
func (m *Manifest) upToDate(settingsHash, name, fp string) bool {
	if m == nil || m.SettingsHash != settingsHash {
		return false
	}
	e, ok := m.Entries[name]
	return ok && e.Fingerprint == fp
}

// Fingerprint returns the content fingerprint of an EEP source: the header
// block and the body are hashed as separate parts.
func Fingerprint(src []byte) string {
	_, body, err := eep.SplitHeader(src)
	if err != nil {
		return mdfp.CalculateFingerprintFromParts("", string(src))
	}
	header := src[:len(src)-len(body)]
	return mdfp.CalculateFingerprintFromParts(string(header), string(body))
}

// settingsHash identifies everything besides the source that shapes a page.
func settingsHash(v any, template []byte) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("hash settings: %w", err)
	}
	h := sha256.New()
	h.Write(data)
	h.Write(template)
	return hex.EncodeToString(h.Sum(nil)), nil
}
