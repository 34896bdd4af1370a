package hash

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/parity-oracle/internal/params"
	"github.com/zeebo/blake3"
)

const DigestLengthBytes = params.SecBytes * 2 // 32

// Hash is a domain separated hash, used to derive identifiers for keys
// without revealing anything but the public values written to it.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash, initialized with the given domain.
func New(domain string) *Hash {
	hash := &Hash{h: blake3.New()}
	_ = writeWithDomain(hash.h, BytesWithDomain{TheDomain: "Domain", Bytes: []byte(domain)})
	return hash
}

// Digest returns a reader for the current output of the function.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny writes data to the hash state.
//
// Supported types are []byte, *saferith.Nat, *saferith.Modulus and WriterToWithDomain.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var toWrite WriterToWithDomain
		switch t := d.(type) {
		case []byte:
			toWrite = BytesWithDomain{TheDomain: "[]byte", Bytes: t}
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.WriteAny: nil *saferith.Nat")
			}
			toWrite = BytesWithDomain{TheDomain: "saferith.Nat", Bytes: t.Big().Bytes()}
		case *saferith.Modulus:
			if t == nil {
				return fmt.Errorf("hash.WriteAny: nil *saferith.Modulus")
			}
			toWrite = BytesWithDomain{TheDomain: "saferith.Modulus", Bytes: t.Bytes()}
		case WriterToWithDomain:
			toWrite = t
		default:
			panic(fmt.Sprintf("hash.WriteAny: unsupported type %T", d))
		}
		if err := writeWithDomain(hash.h, toWrite); err != nil {
			return fmt.Errorf("hash.WriteAny: %s: %w", toWrite.Domain(), err)
		}
	}
	return nil
}

// Fingerprint returns a short hex identifier for the given public values.
func Fingerprint(domain string, data ...interface{}) (string, error) {
	h := New(domain)
	if err := h.WriteAny(data...); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum()[:8]), nil
}
