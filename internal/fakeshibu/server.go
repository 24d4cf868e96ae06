// Package fakeshibu provides a minimal in-process ShibuDB wire peer for
// testing. It listens on a loopback TCP port, reads newline-delimited
// requests and answers each one with a single line produced by a
// test-supplied handler. Every received request line is recorded so tests
// can assert on the traffic (or its absence).
package fakeshibu

import (
	"bufio"
	"encoding/json"
	"net"
	"sync"
)

// Handler produces the single response line (without trailing newline) for
// one decoded request. Requests that are not valid JSON are handed over
// with a nil map and the raw line.
type Handler func(req map[string]interface{}, raw string) string

// Server is one fake ShibuDB instance.
type Server struct {
	ln      net.Listener
	handler Handler

	mu       sync.Mutex
	requests []string
	conns    map[net.Conn]struct{}
	closed   bool

	wg sync.WaitGroup
}

// Start launches a server on an ephemeral loopback port.
func Start(handler Handler) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	s := &Server{ln: ln, handler: handler, conns: map[net.Conn]struct{}{}}
	s.wg.Add(1)
	go s.acceptLoop()
	return s, nil
}

// Addr returns the host and port the server listens on.
func (s *Server) Addr() (string, int) {
	addr := s.ln.Addr().(*net.TCPAddr)
	return addr.IP.String(), addr.Port
}

// RequestCount returns how many request lines the server has received.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of all received request lines in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// Close stops the listener, severs all open connections and waits for the
// connection handlers to finish.
func (s *Server) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	conns := make([]net.Conn, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	_ = s.ln.Close()
	for _, conn := range conns {
		_ = conn.Close()
	}
	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go s.serveConn(conn)
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
	}()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		line := scanner.Text()

		s.mu.Lock()
		s.requests = append(s.requests, line)
		s.mu.Unlock()

		var req map[string]interface{}
		_ = json.Unmarshal([]byte(line), &req)

		resp := s.handler(req, line)
		if _, err := conn.Write([]byte(resp + "\n")); err != nil {
			return
		}
	}
}

// --------------------------------------------------------------------------
// Canned handlers
// --------------------------------------------------------------------------

// OKHandler answers every request, handshake included, with a plain
// {"status":"OK"} reply.
func OKHandler(map[string]interface{}, string) string {
	return `{"status": "OK"}`
}

// KVHandler emulates enough of the server for key-value round trips: the
// handshake succeeds, PUT stores, GET returns the stored value, everything
// else is acknowledged with OK.
func KVHandler() Handler {
	var mu sync.Mutex
	data := map[string]string{}

	return func(req map[string]interface{}, _ string) string {
		cmd, _ := req["type"].(string)
		switch cmd {
		case "PUT":
			key, _ := req["key"].(string)
			value, _ := req["value"].(string)
			mu.Lock()
			data[key] = value
			mu.Unlock()
			return `{"status": "OK"}`
		case "GET":
			key, _ := req["key"].(string)
			mu.Lock()
			value, ok := data[key]
			mu.Unlock()
			if !ok {
				return `{"status": "ERROR", "message": "key not found"}`
			}
			b, _ := json.Marshal(map[string]string{"status": "OK", "value": value})
			return string(b)
		default:
			return `{"status": "OK"}`
		}
	}
}
