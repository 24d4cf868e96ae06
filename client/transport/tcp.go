package transport

import (
	"bufio"
	"io"
	"net"
	"strings"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/shibudb-org/shibudb-clients/client/common"
)

var Logger = logger.GetLogger("transport")

// tcpTransport implements the ILineTransport interface on a TCP socket
type tcpTransport struct {
	conn    net.Conn
	reader  *bufio.Reader
	timeout time.Duration
}

// NewTCPTransport creates a new transport speaking the line protocol over TCP
func NewTCPTransport() ILineTransport {
	return &tcpTransport{}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.ILineTransport)
// --------------------------------------------------------------------------

func (t *tcpTransport) Connect(config common.ClientConfig) error {
	conn, err := net.DialTimeout("tcp", config.Endpoint(), config.Timeout())
	if err != nil {
		return common.NewErrorf(common.ErrConnection, "failed to connect to %s: %v", config.Endpoint(), err)
	}

	// Apply socket tuning before the first byte is exchanged
	if err := upgradeConnection(conn, config.TCP); err != nil {
		conn.Close()
		return common.NewErrorf(common.ErrConnection, "failed to configure connection to %s: %v", config.Endpoint(), err)
	}

	t.conn = conn
	t.reader = bufio.NewReader(conn)
	t.timeout = config.Timeout()

	Logger.Infof("connected to %s", config.Endpoint())
	return nil
}

func (t *tcpTransport) SendLine(line string) error {
	if t.conn == nil {
		return common.NewError(common.ErrQuery, "connection is closed")
	}

	if t.timeout > 0 {
		_ = t.conn.SetWriteDeadline(time.Now().Add(t.timeout))
	}

	payload := []byte(line + "\n")
	n, err := t.conn.Write(payload)
	if err != nil {
		return common.NewErrorf(common.ErrQuery, "failed to send request: %v", err)
	}
	if n < len(payload) {
		return common.NewErrorf(common.ErrQuery, "short write: %d of %d bytes", n, len(payload))
	}
	return nil
}

func (t *tcpTransport) ReceiveLine() (string, error) {
	if t.conn == nil {
		return "", common.NewError(common.ErrQuery, "connection is closed")
	}

	if t.timeout > 0 {
		_ = t.conn.SetReadDeadline(time.Now().Add(t.timeout))
	}

	line, err := t.reader.ReadString('\n')
	if err != nil {
		// A reply followed by an immediate server-side close still counts
		// as a complete line.
		if err == io.EOF && line != "" {
			return line, nil
		}
		return "", common.NewErrorf(common.ErrQuery, "failed to read response: %v", err)
	}
	return strings.TrimSuffix(line, "\n"), nil
}

func (t *tcpTransport) Close() {
	if t.conn != nil {
		_ = t.conn.Close()
		t.conn = nil
		t.reader = nil
		Logger.Infof("connection closed")
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// upgradeConnection applies the socket tuning parameters from TCPConf to an
// established connection
func upgradeConnection(conn net.Conn, config common.TCPConf) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil // Not a TCP connection, nothing to upgrade
	}

	if err := tcpConn.SetNoDelay(config.TCPNoDelay); err != nil {
		return err
	}

	if config.WriteBufferSize > 0 {
		if err := tcpConn.SetWriteBuffer(config.WriteBufferSize); err != nil {
			return err
		}
	}

	if config.ReadBufferSize > 0 {
		if err := tcpConn.SetReadBuffer(config.ReadBufferSize); err != nil {
			return err
		}
	}

	if config.TCPKeepAliveSec > 0 {
		if err := tcpConn.SetKeepAlive(true); err != nil {
			return err
		}
		if err := tcpConn.SetKeepAlivePeriod(time.Duration(config.TCPKeepAliveSec) * time.Second); err != nil {
			return err
		}
	}

	if config.TCPLingerSec > 0 {
		if err := tcpConn.SetLinger(config.TCPLingerSec); err != nil {
			return err
		}
	}

	return nil
}
