package transport

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/shibudb-org/shibudb-clients/client/common"
)

// configFor builds a ClientConfig pointing at a listener address
func configFor(t *testing.T, addr string) common.ClientConfig {
	t.Helper()

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("failed to split address %q: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("failed to parse port %q: %v", portStr, err)
	}

	config := common.DefaultClientConfig()
	config.Host = host
	config.Port = port
	config.TimeoutSecond = 1
	return config
}

func TestConnectRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	transport := NewTCPTransport()
	err = transport.Connect(configFor(t, addr))
	if err == nil {
		transport.Close()
		t.Fatal("expected connect to fail")
	}
	if !common.IsKind(err, common.ErrConnection) {
		t.Errorf("expected a connection error, got: %v", err)
	}
}

func TestSendAndReceiveLine(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	// Echo server that replies to each line with a fixed response.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			_, _ = conn.Write([]byte("echo:" + line))
		}
	}()

	transport := NewTCPTransport()
	if err := transport.Connect(configFor(t, ln.Addr().String())); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer transport.Close()

	if err := transport.SendLine(`{"type": "LIST_SPACES"}`); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	line, err := transport.ReceiveLine()
	if err != nil {
		t.Fatalf("failed to receive: %v", err)
	}
	if line != `echo:{"type": "LIST_SPACES"}` {
		t.Errorf("unexpected line: %q", line)
	}
	if strings.HasSuffix(line, "\n") {
		t.Error("received line must not carry the trailing newline")
	}
}

func TestReceiveLineAcceptsReplyBeforeClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	// Reply without a trailing newline, then close immediately.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte("bye"))
		conn.Close()
	}()

	transport := NewTCPTransport()
	if err := transport.Connect(configFor(t, ln.Addr().String())); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer transport.Close()

	line, err := transport.ReceiveLine()
	if err != nil {
		t.Fatalf("failed to receive: %v", err)
	}
	if line != "bye" {
		t.Errorf("unexpected line: %q", line)
	}
}

func TestReceiveLineTimeout(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer ln.Close()

	// Accept but never reply.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		select {}
	}()

	transport := NewTCPTransport()
	if err := transport.Connect(configFor(t, ln.Addr().String())); err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	defer transport.Close()

	_, err = transport.ReceiveLine()
	if err == nil {
		t.Fatal("expected a timeout")
	}
	if !common.IsKind(err, common.ErrQuery) {
		t.Errorf("expected a query error, got: %v", err)
	}
}

func TestClosedTransport(t *testing.T) {
	transport := NewTCPTransport()

	if err := transport.SendLine("x"); !common.IsKind(err, common.ErrQuery) {
		t.Errorf("send on unconnected transport: got %v", err)
	}
	if _, err := transport.ReceiveLine(); !common.IsKind(err, common.ErrQuery) {
		t.Errorf("receive on unconnected transport: got %v", err)
	}

	// Close is safe on an unconnected transport and is idempotent.
	transport.Close()
	transport.Close()
}
