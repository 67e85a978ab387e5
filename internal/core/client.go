package core

import "sync"

// Client is one live transport session as seen by the core layer.
// The transport reads Events; the core only ever performs non-blocking sends.
type Client struct {
	ID     string
	UserID string
	Name   string
	Events chan *Event

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient constructs a client with an outbound buffer of the given size.
func NewClient(id, userID, name string, buffer int) *Client {
	if name == "" {
		name = userID
	}
	if buffer <= 0 {
		buffer = 32
	}
	return &Client{
		ID:     id,
		UserID: userID,
		Name:   name,
		Events: make(chan *Event, buffer),
		done:   make(chan struct{}),
	}
}

// Done is closed once the client has been disconnected or the hub shut down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close marks the client as gone. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// deliver attempts a single non-blocking send. A closed client or a full
// buffer drops the event.
func (c *Client) deliver(ev *Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
