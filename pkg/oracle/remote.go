package oracle

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/parity-oracle/pkg/math/arith"
)

var ErrEmptyQuery = errors.New("oracle: query without ciphertext")

// Query asks for the parity of the plaintext of Ciphertext.
type Query struct {
	Ciphertext []byte `cbor:"1,keyasint"`
}

// Answer is the oracle's reply to a Query.
type Answer struct {
	Even bool `cbor:"1,keyasint"`
}

// Server exposes an Oracle behind a byte oriented request/response interface,
// like a service that validates the parity of the messages it receives.
type Server struct {
	oracle Oracle
	log    zerolog.Logger
}

// NewServer wraps o. Only the number of handled queries is ever logged.
func NewServer(o Oracle, log zerolog.Logger) *Server {
	return &Server{
		oracle: o,
		log:    log.With().Str("component", "oracle-server").Logger(),
	}
}

// Handle decodes a cbor encoded Query and returns the cbor encoded Answer.
func (s *Server) Handle(req []byte) ([]byte, error) {
	var q Query
	if err := cbor.Unmarshal(req, &q); err != nil {
		s.log.Warn().Err(err).Msg("failed to decode query")
		return nil, fmt.Errorf("oracle: decode query: %w", err)
	}
	if len(q.Ciphertext) == 0 {
		return nil, ErrEmptyQuery
	}
	even, err := s.oracle.IsPlaintextEven(arith.NatFromBytes(q.Ciphertext))
	if err != nil {
		s.log.Error().Err(err).Msg("failed to answer query")
		return nil, err
	}
	return cbor.Marshal(&Answer{Even: even})
}

// Transport delivers an encoded query and returns the encoded answer.
type Transport func(req []byte) ([]byte, error)

// Client is an Oracle which forwards every query over a Transport.
type Client struct {
	transport Transport
	queries   uint64
}

// NewClient returns an Oracle sending its queries over t.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// IsPlaintextEven implements Oracle.
func (c *Client) IsPlaintextEven(ct *saferith.Nat) (bool, error) {
	atomic.AddUint64(&c.queries, 1)
	// the encoding must be non-empty, even for 0
	ctBytes := ct.Big().Bytes()
	if len(ctBytes) == 0 {
		ctBytes = []byte{0}
	}
	req, err := cbor.Marshal(&Query{Ciphertext: ctBytes})
	if err != nil {
		return false, fmt.Errorf("oracle: encode query: %w", err)
	}
	resp, err := c.transport(req)
	if err != nil {
		return false, fmt.Errorf("oracle: transport: %w", err)
	}
	var a Answer
	if err = cbor.Unmarshal(resp, &a); err != nil {
		return false, fmt.Errorf("oracle: decode answer: %w", err)
	}
	return a.Even, nil
}

// Queries returns the number of queries sent so far.
func (c *Client) Queries() uint64 {
	return atomic.LoadUint64(&c.queries)
}
