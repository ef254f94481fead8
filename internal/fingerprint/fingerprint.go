// Package fingerprint computes content digests for built objects and
// compares fingerprint records across builds.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"git.home.luguber.info/inful/databuild/internal/errors"
)

// Digest computes a deterministic content hash for an arbitrary object.
// The object is serialized to canonical JSON (map keys sorted at every
// depth by encoding/json) and hashed with SHA256, so two objects with the
// same logical content produce the same digest regardless of attribute
// insertion order.
func Digest(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.UnserializableObject("", err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

// DigestAll digests every entry of objects and builds a Record carrying the
// given version string.
func DigestAll(objects map[string]any, version string) (*Record, error) {
	rec := &Record{
		Version: version,
		Objects: make(map[string]string, len(objects)),
	}
	for name, obj := range objects {
		digest, err := Digest(obj)
		if err != nil {
			return nil, errors.UnserializableObject(name, err)
		}
		rec.Objects[name] = digest
	}
	return rec, nil
}

// Equal reports whether two records carry identical name->digest mappings.
// Comparison is pure set semantics: order-independent, object counts must
// match, and the version strings are not part of the comparison.
func Equal(a, b *Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Objects) != len(b.Objects) {
		return false
	}
	for name, digest := range a.Objects {
		other, ok := b.Objects[name]
		if !ok || other != digest {
			return false
		}
	}
	return true
}
