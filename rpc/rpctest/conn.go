// Package rpctest provides a scripted in-memory rpc.Connection for tests of
// generated facades.
package rpctest

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/reoring/facadegen/rpc"
)

// Call records one request seen by a Conn.
type Call struct {
	Envelope map[string]any
	Encoded  []byte
}

// Conn answers requests from replies scripted per facade and method. It is
// safe for concurrent use.
type Conn struct {
	mu       sync.Mutex
	versions map[string]int
	replies  map[string]rpc.Reply
	calls    []Call
}

// New returns a Conn advertising versions.
func New(versions map[string]int) *Conn {
	return &Conn{versions: maps.Clone(versions), replies: map[string]rpc.Reply{}}
}

// Reply scripts the reply to facade.method.
func (c *Conn) Reply(facade, method string, reply rpc.Reply) *Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replies[facade+"."+method] = reply
	return c
}

// ReplyJSON scripts a reply given as JSON text. It panics on malformed input.
func (c *Conn) ReplyJSON(facade, method, text string) *Conn {
	reply, err := rpc.ParseReply([]byte(text))
	if err != nil {
		panic(err)
	}
	return c.Reply(facade, method, reply)
}

func (c *Conn) RPC(ctx context.Context, req *rpc.Request, enc rpc.Encoder) (rpc.Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	encoded, err := enc.Encode(req)
	if err != nil {
		return nil, fmt.Errorf("rpctest: encode %s.%s: %w", req.Kind, req.Request, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Envelope: req.Envelope(), Encoded: encoded})
	reply, ok := c.replies[req.Kind+"."+req.Request]
	if !ok {
		return nil, fmt.Errorf("rpctest: no reply scripted for %s.%s", req.Kind, req.Request)
	}
	return reply, nil
}

func (c *Conn) Facades() map[string]int { return c.versions }

// Calls returns the requests received so far, in arrival order.
func (c *Conn) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}
