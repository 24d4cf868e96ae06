package pool

import (
	"testing"
	"time"

	"github.com/shibudb-org/shibudb-clients/client"
	"github.com/shibudb-org/shibudb-clients/client/common"
	"github.com/shibudb-org/shibudb-clients/internal/fakeshibu"
)

// poolConfigFor builds a PoolConfig pointing at a fake server
func poolConfigFor(t *testing.T, srv *fakeshibu.Server) common.PoolConfig {
	t.Helper()

	config := common.DefaultPoolConfig()
	config.Client.Host, config.Client.Port = srv.Addr()
	config.Client.TimeoutSecond = 2
	config.Client.Username = "admin"
	config.Client.Password = "pw"
	return config
}

func startOKServer(t *testing.T) *fakeshibu.Server {
	t.Helper()

	srv, err := fakeshibu.Start(fakeshibu.OKHandler)
	if err != nil {
		t.Fatalf("failed to start fake server: %v", err)
	}
	return srv
}

func TestNewWarmsMinSize(t *testing.T) {
	srv := startOKServer(t)
	defer srv.Close()

	config := poolConfigFor(t, srv)
	config.MinSize = 3
	config.MaxSize = 5

	p, warmed := New(config)
	defer p.Close()

	if warmed != 3 {
		t.Errorf("warmed = %d, want 3", warmed)
	}
	stats := p.Stats()
	if stats.Idle != 3 || stats.Active != 3 || stats.Warmed != 3 {
		t.Errorf("unexpected stats after warmup: %+v", stats)
	}
}

func TestNewSurvivesUnreachableServer(t *testing.T) {
	srv := startOKServer(t)
	config := poolConfigFor(t, srv)
	config.MinSize = 2
	srv.Close()

	p, warmed := New(config)
	defer p.Close()

	if warmed != 0 {
		t.Errorf("warmed = %d, want 0", warmed)
	}
	if stats := p.Stats(); stats.Idle != 0 || stats.Active != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestGetAndPutCycle(t *testing.T) {
	srv := startOKServer(t)
	defer srv.Close()

	config := poolConfigFor(t, srv)
	config.MinSize = 1
	config.MaxSize = 2

	p, _ := New(config)
	defer p.Close()

	conn, err := p.Get()
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if stats := p.Stats(); stats.Borrowed != 1 || stats.Idle != 0 {
		t.Errorf("unexpected stats while borrowed: %+v", stats)
	}

	// The checked-out connection is fully usable.
	if _, err := conn.ListSpaces(); err != nil {
		t.Errorf("borrowed connection is not usable: %v", err)
	}

	p.Put(conn)
	if stats := p.Stats(); stats.Borrowed != 0 || stats.Idle != 1 {
		t.Errorf("unexpected stats after return: %+v", stats)
	}
}

func TestGetGrowsUpToMaxSize(t *testing.T) {
	srv := startOKServer(t)
	defer srv.Close()

	config := poolConfigFor(t, srv)
	config.MinSize = 1
	config.MaxSize = 3
	config.AcquireTimeoutSecond = 0

	p, _ := New(config)
	defer p.Close()

	var conns []*client.Connection
	for i := 0; i < 3; i++ {
		conn, err := p.Get()
		if err != nil {
			t.Fatalf("get %d failed: %v", i, err)
		}
		conns = append(conns, conn)
	}
	if stats := p.Stats(); stats.Active != 3 {
		t.Errorf("active = %d, want 3", stats.Active)
	}

	// The pool is at capacity now and must fail fast.
	_, err := p.Get()
	if !common.IsKind(err, common.ErrPoolExhausted) {
		t.Errorf("expected pool exhaustion, got: %v", err)
	}

	for _, conn := range conns {
		p.Put(conn)
	}
	if stats := p.Stats(); stats.Idle != 3 || stats.Borrowed != 0 {
		t.Errorf("unexpected stats after returning all: %+v", stats)
	}
}

func TestGetBlocksUntilPut(t *testing.T) {
	srv := startOKServer(t)
	defer srv.Close()

	config := poolConfigFor(t, srv)
	config.MinSize = 1
	config.MaxSize = 1
	config.AcquireTimeoutSecond = 5

	p, _ := New(config)
	defer p.Close()

	conn, err := p.Get()
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}

	// Release the only connection shortly after the second Get starts
	// blocking on it.
	go func() {
		time.Sleep(100 * time.Millisecond)
		p.Put(conn)
	}()

	start := time.Now()
	conn2, err := p.Get()
	if err != nil {
		t.Fatalf("blocking get failed: %v", err)
	}
	defer p.Put(conn2)

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("get returned after %v, expected it to block for the release", elapsed)
	}
	if conn2 != conn {
		t.Error("expected the released connection to be handed over")
	}
}

func TestGetTimesOutWhenExhausted(t *testing.T) {
	srv := startOKServer(t)
	defer srv.Close()

	config := poolConfigFor(t, srv)
	config.MinSize = 1
	config.MaxSize = 1
	config.AcquireTimeoutSecond = 1

	p, _ := New(config)
	defer p.Close()

	conn, err := p.Get()
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	defer p.Put(conn)

	start := time.Now()
	_, err = p.Get()
	if !common.IsKind(err, common.ErrPoolExhausted) {
		t.Fatalf("expected pool exhaustion, got: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Errorf("get failed after %v, expected it to wait out the timeout", elapsed)
	}
}

func TestGetDiscardsDeadConnections(t *testing.T) {
	srv := startOKServer(t)

	config := poolConfigFor(t, srv)
	config.MinSize = 2
	config.MaxSize = 2
	config.AcquireTimeoutSecond = 0

	p, warmed := New(config)
	defer p.Close()
	if warmed != 2 {
		t.Fatalf("warmed = %d, want 2", warmed)
	}

	// Kill the server; every idle connection is now dead and dialing a
	// replacement fails too.
	srv.Close()

	_, err := p.Get()
	if err == nil {
		t.Fatal("expected get to fail with a dead server")
	}
	if stats := p.Stats(); stats.Idle != 0 {
		t.Errorf("dead connections must be discarded, stats: %+v", stats)
	}
}

func TestPutClosesWhenIdleListIsFull(t *testing.T) {
	srv := startOKServer(t)
	defer srv.Close()

	config := poolConfigFor(t, srv)
	config.MinSize = 1
	config.MaxSize = 1

	p, _ := New(config)
	defer p.Close()

	// A stray connection the pool never handed out.
	stray, err := client.Dial(config.Client)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}

	p.Put(stray)
	if stats := p.Stats(); stats.Idle != 1 {
		t.Errorf("idle list must stay at capacity, stats: %+v", stats)
	}
	// The stray connection was closed rather than pooled.
	if _, err := stray.ListSpaces(); err == nil {
		t.Error("expected the surplus connection to be closed")
	}
}

func TestClose(t *testing.T) {
	srv := startOKServer(t)
	defer srv.Close()

	config := poolConfigFor(t, srv)
	config.MinSize = 2
	config.MaxSize = 4
	config.AcquireTimeoutSecond = 0

	p, _ := New(config)

	borrowed, err := p.Get()
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}

	p.Close()
	p.Close() // idempotent

	stats := p.Stats()
	if !stats.Shutdown || stats.Idle != 0 || stats.Active != 0 {
		t.Errorf("unexpected stats after close: %+v", stats)
	}

	// Checked-out connections survive a pool shutdown.
	if _, err := borrowed.ListSpaces(); err != nil {
		t.Errorf("borrowed connection must stay open: %v", err)
	}

	// The holder returns it after shutdown; the pool closes it.
	p.Put(borrowed)
	if _, err := borrowed.ListSpaces(); err == nil {
		t.Error("expected the returned connection to be closed")
	}

	if _, err := p.Get(); !common.IsKind(err, common.ErrPoolExhausted) {
		t.Errorf("get after close must fail, got: %v", err)
	}
}

func TestHealthCheckReplenishes(t *testing.T) {
	srv := startOKServer(t)
	defer srv.Close()

	config := poolConfigFor(t, srv)
	config.MinSize = 2
	config.MaxSize = 4
	config.AcquireTimeoutSecond = 0
	config.HealthCheckIntervalSec = 1

	p, _ := New(config)
	defer p.Close()

	// Drain the pool below MinSize and drop the connections on the floor.
	for i := 0; i < 2; i++ {
		conn, err := p.Get()
		if err != nil {
			t.Fatalf("get %d failed: %v", i, err)
		}
		conn.Close()
		p.discard(conn)
		p.borrowed.Delete(conn)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if p.Stats().Active >= config.MinSize {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if stats := p.Stats(); stats.Active < config.MinSize {
		t.Errorf("health check did not replenish the pool: %+v", stats)
	}
}
