package events

// Conn is the part of *nats.Conn the publisher needs.
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSClient publishes encoded events to a single subject.
type NATSClient struct {
	conn    Conn
	subject string
}

func NewNATSClient(conn Conn, subject string) *NATSClient {
	return &NATSClient{conn: conn, subject: subject}
}

func (n *NATSClient) PublishEvent(data []byte) error {
	return n.conn.Publish(n.subject, data)
}
