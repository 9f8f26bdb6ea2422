package notify

import (
	"context"

	"github.com/nats-io/nats.go"
)

// NATS publishes events to a subject so other processes can react to
// hedge adjustments.
type NATS struct {
	conn    *nats.Conn
	subject string
}

func NewNATS(url, subject string) (*NATS, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &NATS{conn: conn, subject: subject}, nil
}

func (n *NATS) Notify(ctx *context.Context, message string) error {
	return n.conn.Publish(n.subject, []byte(message))
}

func (n *NATS) Close() {
	n.conn.Drain()
}
