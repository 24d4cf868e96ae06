// Package pool implements a bounded connection pool for ShibuDB clients.
//
// The pool creates MinSize connections eagerly at construction (skipping
// ones that fail, so it can start undersized — New reports the number
// actually warmed) and grows lazily up to MaxSize. Every checkout and
// check-in runs a synchronous liveness probe, a harmless LIST_SPACES round
// trip; connections that fail it are closed and their slot freed.
//
// Usage Example:
//
//	config := common.DefaultPoolConfig()
//	config.Client.Username = "admin"
//	config.Client.Password = "admin"
//
//	p, warmed := pool.New(config)
//	if warmed < config.MinSize {
//		// degraded start, the pool will grow on demand
//	}
//	defer p.Close()
//
//	conn, err := p.Get()
//	if err != nil {
//		// handle pool exhaustion or connection failure
//	}
//	defer p.Put(conn)
//
//	conn.Put("mykey", "myvalue", "main")
//
// Acquire semantics:
//
// With AcquireTimeoutSecond set to zero, Get fails immediately with a pool
// exhausted error when no idle connection exists and the pool is at
// capacity. With a positive timeout, Get blocks up to that long for another
// goroutine to return a connection.
//
// Thread Safety:
//
// All pool methods are safe for concurrent use. Ownership of a connection
// transfers wholly on Get and back on Put; the pool never uses a connection
// concurrently with its holder, and Close leaves checked-out connections
// untouched.
package pool
