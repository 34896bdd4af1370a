package main

import (
	"errors"

	"github.com/taurusgroup/parity-oracle/pkg/oracle"
)

var errNetworkClosed = errors.New("network closed")

type request struct {
	data  []byte
	reply chan<- response
}

type response struct {
	data []byte
	err  error
}

// chanNetwork carries encoded oracle queries to a server running in its own goroutine,
// standing in for a remote service the attacker can only talk to.
type chanNetwork struct {
	requests chan request
	done     chan struct{}
}

func newNetwork(server *oracle.Server) *chanNetwork {
	n := &chanNetwork{
		requests: make(chan request),
		done:     make(chan struct{}),
	}
	go n.serve(server)
	return n
}

func (n *chanNetwork) serve(server *oracle.Server) {
	for {
		select {
		case req := <-n.requests:
			if n.closed() {
				req.reply <- response{err: errNetworkClosed}
				return
			}
			data, err := server.Handle(req.data)
			req.reply <- response{data: data, err: err}
		case <-n.done:
			return
		}
	}
}

// Send implements oracle.Transport.
func (n *chanNetwork) Send(data []byte) ([]byte, error) {
	if n.closed() {
		return nil, errNetworkClosed
	}
	reply := make(chan response, 1)
	select {
	case n.requests <- request{data: data, reply: reply}:
	case <-n.done:
		return nil, errNetworkClosed
	}
	resp := <-reply
	return resp.data, resp.err
}

func (n *chanNetwork) Close() {
	close(n.done)
}

func (n *chanNetwork) closed() bool {
	select {
	case <-n.done:
		return true
	default:
		return false
	}
}
