package transport

import (
	"github.com/shibudb-org/shibudb-clients/client/common"
)

// ILineTransport is the interface for the client transport layer. A
// transport owns exactly one connection to the server and exchanges
// newline-delimited messages on it, one request and one response at a time.
type ILineTransport interface {
	// Connect establishes the connection described by the configuration.
	// It returns a connection error if the peer is unreachable or the
	// timeout elapses.
	Connect(config common.ClientConfig) error
	// SendLine writes a single UTF-8 line, appending the trailing newline.
	// It returns a query error on a short or failed write.
	SendLine(line string) error
	// ReceiveLine blocks until one newline-terminated line is available
	// (or the configured timeout elapses) and returns it without the
	// trailing newline.
	ReceiveLine() (string, error)
	// Close releases the connection. It is idempotent and never fails.
	Close()
}
