package pool

import (
	"sync"
	"time"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/shibudb-org/shibudb-clients/client"
	"github.com/shibudb-org/shibudb-clients/client/common"
)

var Logger = logger.GetLogger("pool")

// Pool manages a bounded set of reusable server connections. Connections
// are created eagerly up to MinSize at construction and lazily up to
// MaxSize afterwards. Before a connection is handed out or accepted back it
// is probed with a harmless LIST_SPACES round trip; a failing connection is
// closed and its slot freed.
//
// All methods are safe for concurrent use. A checked-out connection is
// exclusively owned by its holder until it is returned with Put.
type Pool struct {
	config common.PoolConfig

	mu       sync.Mutex
	cond     *sync.Cond
	idle     []*client.Connection // LIFO
	active   int
	shutdown bool

	warmed int // connections successfully created at construction

	// borrowed tracks checked-out connections for diagnostics only; Close
	// never touches them, their holders stay responsible.
	borrowed *xsync.MapOf[*client.Connection, time.Time]

	stopCh chan struct{}
}

// New creates a pool and eagerly warms up to MinSize connections. A
// connection that fails to construct is skipped, so the pool can start
// undersized; the number of connections actually warmed is returned
// alongside the pool so callers can detect a degraded start.
func New(config common.PoolConfig) (*Pool, int) {
	p := &Pool{
		config:   config,
		borrowed: xsync.NewMapOf[*client.Connection, time.Time](),
	}
	p.cond = sync.NewCond(&p.mu)

	for i := 0; i < config.MinSize; i++ {
		conn, err := client.Dial(config.Client)
		if err != nil {
			Logger.Warningf("failed to warm connection %d/%d: %v", i+1, config.MinSize, err)
			continue
		}
		p.idle = append(p.idle, conn)
		p.active++
		p.warmed++
	}
	metricCreated.Add(p.warmed)

	if p.warmed < config.MinSize {
		Logger.Warningf("pool started undersized: %d of %d connections", p.warmed, config.MinSize)
	} else {
		Logger.Infof("pool warmed with %d connections", p.warmed)
	}

	if config.HealthCheckInterval() > 0 {
		p.stopCh = make(chan struct{})
		go p.healthCheckWorker()
	}

	return p, p.warmed
}

// --------------------------------------------------------------------------
// Checkout / check-in
// --------------------------------------------------------------------------

// Get checks a connection out of the pool. The caller owns it exclusively
// until it is returned with Put.
//
// When the pool is exhausted and the acquire timeout is zero, Get fails
// immediately; with a positive timeout it blocks up to that long for a
// connection to be released. Dead pooled connections are discarded and the
// checkout retried, bounded by MaxSize+1 attempts.
func (p *Pool) Get() (*client.Connection, error) {
	var deadline time.Time
	if d := p.config.AcquireTimeout(); d > 0 {
		deadline = time.Now().Add(d)
	}

	attempts := p.config.MaxSize + 1
	var lastErr error

	for i := 0; i < attempts; i++ {
		conn, err := p.acquire(deadline)
		if err != nil {
			return nil, err
		}

		// The connection is exclusively ours here, probe outside the lock
		if err := probe(conn); err != nil {
			Logger.Warningf("discarding dead pooled connection: %v", err)
			metricProbeFailures.Inc()
			p.discard(conn)
			lastErr = err
			continue
		}

		p.borrowed.Store(conn, time.Now())
		metricAcquired.Inc()
		return conn, nil
	}

	metricExhausted.Inc()
	return nil, common.NewErrorf(common.ErrPoolExhausted,
		"pool exhausted: no healthy connection after %d attempts: %v", attempts, lastErr)
}

// Put returns a connection to the pool and transfers ownership back. A
// connection that fails the liveness probe, or arrives while the idle list
// is full or the pool is shut down, is closed instead of pooled.
func (p *Pool) Put(conn *client.Connection) {
	if conn == nil {
		return
	}
	p.borrowed.Delete(conn)

	p.mu.Lock()
	if p.shutdown {
		if p.active > 0 {
			p.active--
		}
		p.mu.Unlock()
		conn.Close()
		return
	}
	p.mu.Unlock()

	if err := probe(conn); err != nil {
		Logger.Warningf("released connection failed probe, closing: %v", err)
		metricProbeFailures.Inc()
		p.discard(conn)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.shutdown || len(p.idle) >= p.config.MaxSize {
		if p.active > 0 {
			p.active--
		}
		conn.Close()
		p.cond.Signal()
		return
	}

	p.idle = append(p.idle, conn)
	metricReleased.Inc()
	p.cond.Signal()
}

// --------------------------------------------------------------------------
// Shutdown / diagnostics
// --------------------------------------------------------------------------

// Close shuts the pool down: every idle connection is closed, the idle list
// is cleared and no further connections are created or accepted back.
// Connections currently checked out stay open; their holders remain
// responsible for closing them.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return
	}
	p.shutdown = true
	idle := p.idle
	p.idle = nil
	p.active = 0
	p.cond.Broadcast()
	p.mu.Unlock()

	if p.stopCh != nil {
		close(p.stopCh)
	}

	for _, conn := range idle {
		conn.Close()
	}

	Logger.Infof("connection pool closed")
}

// Stats is a read-only snapshot of the pool state.
type Stats struct {
	Idle     int
	Active   int
	Borrowed int
	Warmed   int
	MinSize  int
	MaxSize  int
	Shutdown bool
}

// Stats returns a snapshot of the pool state for diagnostics.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Idle:     len(p.idle),
		Active:   p.active,
		Borrowed: p.borrowed.Size(),
		Warmed:   p.warmed,
		MinSize:  p.config.MinSize,
		MaxSize:  p.config.MaxSize,
		Shutdown: p.shutdown,
	}
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// acquire pops an idle connection, creates a fresh one when below MaxSize,
// or waits for a release until the deadline. A zero deadline fails
// immediately on exhaustion.
func (p *Pool) acquire(deadline time.Time) (*client.Connection, error) {
	p.mu.Lock()
	for {
		if p.shutdown {
			p.mu.Unlock()
			return nil, common.NewError(common.ErrPoolExhausted, "pool is shut down")
		}

		if n := len(p.idle); n > 0 {
			conn := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()
			return conn, nil
		}

		if p.active < p.config.MaxSize {
			// Reserve the slot before dialing so concurrent acquires
			// cannot overshoot MaxSize.
			p.active++
			p.mu.Unlock()

			conn, err := client.Dial(p.config.Client)
			if err != nil {
				p.mu.Lock()
				if !p.shutdown && p.active > 0 {
					p.active--
				}
				p.cond.Signal()
				p.mu.Unlock()
				return nil, err
			}
			metricCreated.Inc()
			return conn, nil
		}

		if deadline.IsZero() {
			p.mu.Unlock()
			metricExhausted.Inc()
			return nil, common.NewError(common.ErrPoolExhausted, "pool exhausted")
		}
		if !p.waitUntil(deadline) {
			p.mu.Unlock()
			metricExhausted.Inc()
			return nil, common.NewError(common.ErrPoolExhausted, "pool exhausted: acquire timeout elapsed")
		}
	}
}

// waitUntil blocks on the pool condition until signalled or the deadline
// passes. It must be called with p.mu held and returns with p.mu held; the
// return value is false once the deadline has passed.
func (p *Pool) waitUntil(deadline time.Time) bool {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false
	}

	timer := time.AfterFunc(remaining, func() {
		// Take the lock briefly so the broadcast cannot fire before the
		// waiter below has released it inside Wait.
		p.mu.Lock()
		p.mu.Unlock() //nolint:staticcheck // empty critical section is the point
		p.cond.Broadcast()
	})
	p.cond.Wait()
	timer.Stop()

	return time.Now().Before(deadline)
}

// discard closes a connection that is owned by the caller and frees its slot.
func (p *Pool) discard(conn *client.Connection) {
	conn.Close()

	p.mu.Lock()
	if !p.shutdown && p.active > 0 {
		p.active--
	}
	p.cond.Signal()
	p.mu.Unlock()
}

// probe issues a harmless LIST_SPACES round trip to verify a connection is
// still usable. Only transport failures count; a reply with a non-OK status
// is still a live connection.
func probe(conn *client.Connection) error {
	_, err := conn.ListSpaces()
	return err
}

// --------------------------------------------------------------------------
// Background health check
// --------------------------------------------------------------------------

// healthCheckWorker periodically replenishes the pool back to MinSize. It
// exits when the pool is closed.
func (p *Pool) healthCheckWorker() {
	ticker := time.NewTicker(p.config.HealthCheckInterval())
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.replenish()
		}
	}
}

// replenish creates connections until the pool holds MinSize again.
func (p *Pool) replenish() {
	for {
		p.mu.Lock()
		if p.shutdown || p.active >= p.config.MinSize {
			p.mu.Unlock()
			return
		}
		p.active++
		p.mu.Unlock()

		conn, err := client.Dial(p.config.Client)

		p.mu.Lock()
		if p.shutdown {
			p.mu.Unlock()
			if conn != nil {
				conn.Close()
			}
			return
		}
		if err != nil {
			if p.active > 0 {
				p.active--
			}
			p.mu.Unlock()
			Logger.Warningf("health check failed to add connection: %v", err)
			return
		}
		p.idle = append(p.idle, conn)
		p.cond.Signal()
		p.mu.Unlock()

		metricCreated.Inc()
		Logger.Debugf("health check added a connection to the pool")
	}
}
