package cache

import (
	"encoding/hex"
	"hash/fnv"
	"io"
	"strings"
)

// Key identifies one cached value. Every field is part of identity: changing
// any field, including the tier, addresses a different entry. There is no
// partial matching.
type Key struct {
	Goal        string
	Fingerprint string
	Kind        string
	Name        string
	Tier        string
}

// String returns the canonical joined form of the key. Fields are separated
// by an ASCII unit separator, which cannot appear in goal text, digests, or
// identifier-style names.
func (k Key) String() string {
	return strings.Join([]string{k.Goal, k.Fingerprint, k.Kind, k.Name, k.Tier}, "\x1f")
}

// Address returns the content address the stores file this key under:
// a 32-character hex digest of the canonical form.
func (k Key) Address() string {
	h := fnv.New128a()
	io.WriteString(h, k.String())
	return hex.EncodeToString(h.Sum(nil))
}
