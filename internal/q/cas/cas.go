package cas

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tailscale.com/atomicfile"
)

const recordKind = "cas-record-v1"

// Hasher identifies a CAS record by hash.
type Hasher interface {
	// Hash must be filesystem-safe with no path separators.
	Hash() string
}

type stringHasher string

func (h stringHasher) Hash() string { return string(h) }

// NewBytesHasher returns a Hasher for the bytes.
func NewBytesHasher(b []byte) Hasher {
	sum := sha256.Sum256(b)
	return stringHasher(hex.EncodeToString(sum[:]))
}

// NewPartsHasher returns a Hasher for an ordered list of strings. Each part is length-prefixed, so ("ab", "c") and ("a", "bc") hash differently.
func NewPartsHasher(parts ...string) Hasher {
	h := sha256.New()
	buf := make([]byte, 8)
	for _, p := range parts {
		binary.LittleEndian.PutUint64(buf, uint64(len(p)))
		_, _ = h.Write(buf)
		_, _ = h.Write([]byte(p))
	}
	return stringHasher(hex.EncodeToString(h.Sum(nil)))
}

// DB is a filesystem-backed record store rooted at AbsRoot.
type DB struct {
	AbsRoot string
}

type recordV1 struct {
	Kind     string          `json:"kind"`
	Metadata json.RawMessage `json:"metadata"`
}

// Store serializes jsonable with json.Marshal and stores it for (namespace, hasher.Hash()). Storing identical bytes again does not touch the file.
func (db *DB) Store(hasher Hasher, namespace string, jsonable any) error {
	p, err := db.recordPath(hasher, namespace)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(jsonable)
	if err != nil {
		return err
	}
	out, err := json.Marshal(recordV1{Kind: recordKind, Metadata: payload})
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(p); err == nil && bytes.Equal(existing, out) {
		return nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return atomicfile.WriteFile(p, out, 0o644)
}

// Retrieve loads the record for (namespace, hasher.Hash()) into target, which is passed to json.Unmarshal. It reports whether the record was found; a missing record
// is not an error.
func (db *DB) Retrieve(hasher Hasher, namespace string, target any) (bool, error) {
	p, err := db.recordPath(hasher, namespace)
	if err != nil {
		return false, err
	}

	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	var rec recordV1
	if err := json.Unmarshal(b, &rec); err != nil {
		return false, err
	}
	if rec.Kind != recordKind {
		return false, fmt.Errorf("unknown record kind %q", rec.Kind)
	}
	if err := json.Unmarshal(rec.Metadata, target); err != nil {
		return false, err
	}
	return true, nil
}

func (db *DB) recordPath(hasher Hasher, namespace string) (string, error) {
	if db.AbsRoot == "" {
		return "", errors.New("DB.AbsRoot is empty")
	}
	if hasher == nil {
		return "", errors.New("hasher is nil")
	}
	if err := validatePathSegment("namespace", namespace); err != nil {
		return "", err
	}
	hash := hasher.Hash()
	if err := validatePathSegment("hash", hash); err != nil {
		return "", err
	}
	if len(hash) < 3 {
		return "", fmt.Errorf("hash %q is too short", hash)
	}
	return filepath.Join(db.AbsRoot, namespace, hash[:2], hash[2:]), nil
}

func validatePathSegment(name, s string) error {
	if s == "" {
		return fmt.Errorf("%s is empty", name)
	}
	// Disallow both separators to be safe cross-platform.
	if strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%s %q must not contain path separators", name, s)
	}
	return nil
}
