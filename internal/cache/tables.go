package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

// Record is what gets persisted to the cache file: the signature hash that
// was in effect when it was written, plus the two pieces of canonical text
// that hash was computed from. Keeping the plaintext alongside the hash
// makes a stale-cache mismatch diagnosable (§6.3: "a persisted table file
// is accompanied by this signature") instead of just silently regenerating
// with no explanation available.
type Record struct {
	GrammarHash string
	MatcherHash string
	GrammarText string
	MatcherText string
}

// FileName is the name of the cache file inside a --cache-dir.
const FileName = "minnow.tablecache"

// Load reads and decodes the Record at dir/FileName. A missing file is
// reported as (Record{}, false, nil), not an error: the caller treats a
// miss the same way as a signature mismatch and regenerates.
func Load(dir string) (Record, bool, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, false, nil
		}
		return Record{}, false, fmt.Errorf("reading table cache: %w", err)
	}

	var rec Record
	if _, err := rezi.Dec(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("decoding table cache: %w", err)
	}
	return rec, true, nil
}

// Fresh reports whether a loaded Record still matches the current grammar
// and matcher-list signatures, per §6.3's "mismatch causes regeneration."
func (r Record) Fresh(grammarHash, matcherHash string) bool {
	return r.GrammarHash == grammarHash && r.MatcherHash == matcherHash
}

// Save atomically (re)writes the cache file in dir. The record is first
// encoded to a uuid-named staging file in the same directory, then renamed
// into place, so a reader that opens FileName mid-write never observes a
// half-written cache (os.Rename is atomic within one filesystem).
func Save(dir string, rec Record) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}

	data, err := rezi.Enc(rec)
	if err != nil {
		return fmt.Errorf("encoding table cache: %w", err)
	}

	staging := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(staging, data, 0o644); err != nil {
		return fmt.Errorf("writing staging cache file: %w", err)
	}

	final := filepath.Join(dir, FileName)
	if err := os.Rename(staging, final); err != nil {
		os.Remove(staging)
		return fmt.Errorf("installing table cache: %w", err)
	}
	return nil
}
