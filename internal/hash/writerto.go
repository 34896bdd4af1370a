package hash

import (
	"encoding/binary"
	"io"
)

// WriterToWithDomain represents a type writing itself, and knowing its domain.
//
// Providing a domain string lets us distinguish the output of different types
// implementing this same interface.
type WriterToWithDomain interface {
	io.WriterTo

	// Domain returns a context string, which should be unique for each implementor
	Domain() string
}

// writeWithDomain writes len(domain) ‖ domain ‖ data, followed by the length of data,
// so that consecutive writes cannot be confused with each other.
func writeWithDomain(w io.Writer, object WriterToWithDomain) error {
	var size [8]byte
	domain := object.Domain()
	binary.BigEndian.PutUint64(size[:], uint64(len(domain)))
	if _, err := w.Write(size[:]); err != nil {
		return err
	}
	if _, err := io.WriteString(w, domain); err != nil {
		return err
	}
	n, err := object.WriteTo(w)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint64(size[:], uint64(n))
	_, err = w.Write(size[:])
	return err
}

// BytesWithDomain annotates some chunk of data with a domain.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

// WriteTo implements io.WriterTo.
func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

// Domain implements WriterToWithDomain.
func (b BytesWithDomain) Domain() string {
	return b.TheDomain
}
