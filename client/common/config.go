package common

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Default connection parameters. They match the server defaults.
const (
	DefaultHost          = "localhost"
	DefaultPort          = 4444
	DefaultTimeoutSecond = 30
)

// --------------------------------------------------------------------------
// TCP socket configuration struct
// --------------------------------------------------------------------------

// TCPConf holds optional socket tuning parameters. The zero value leaves
// every knob at the operating system default except NoDelay, which the
// factory defaults enable.
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
	WriteBufferSize int
	ReadBufferSize  int
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds all parameters for a single server connection.
type ClientConfig struct {
	Host          string
	Port          int
	TimeoutSecond int

	// Optional credentials. When both are set, Dial authenticates the
	// connection right after the transport is established.
	Username string
	Password string

	// Socket tuning
	TCP TCPConf
}

// DefaultClientConfig returns a ClientConfig with the default connection
// parameters filled in.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Host:          DefaultHost,
		Port:          DefaultPort,
		TimeoutSecond: DefaultTimeoutSecond,
		TCP:           TCPConf{TCPNoDelay: true},
	}
}

// Endpoint returns the host:port address of the server.
func (c *ClientConfig) Endpoint() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Timeout returns the configured timeout as a duration. A zero or negative
// TimeoutSecond disables deadlines.
func (c *ClientConfig) Timeout() time.Duration {
	if c.TimeoutSecond <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSecond) * time.Second
}

// String returns a formatted string representation of the configuration.
// The password is never printed.
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Connection")
	addField("Endpoint", c.Endpoint())
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Authentication")
	if c.Username != "" {
		addField("Username", c.Username)
		addField("Password", "********")
	} else {
		addField("Username", "(none)")
	}

	addSection("Socket")
	addField("TCP NoDelay", fmt.Sprintf("%t", c.TCP.TCPNoDelay))
	addField("TCP KeepAlive", fmt.Sprintf("%d sec", c.TCP.TCPKeepAliveSec))
	addField("TCP Linger", fmt.Sprintf("%d sec", c.TCP.TCPLingerSec))
	addField("Write Buffer", fmt.Sprintf("%d bytes", c.TCP.WriteBufferSize))
	addField("Read Buffer", fmt.Sprintf("%d bytes", c.TCP.ReadBufferSize))

	return sb.String()
}

// --------------------------------------------------------------------------
// Pool configuration struct
// --------------------------------------------------------------------------

// PoolConfig holds sizing and timing parameters for the connection pool.
type PoolConfig struct {
	Client ClientConfig

	// MinSize connections are created eagerly at pool construction.
	MinSize int
	// MaxSize bounds idle and active connections alike.
	MaxSize int

	// AcquireTimeoutSecond controls how long Get blocks for a connection
	// when the pool is exhausted. Zero keeps the historical behavior of
	// failing immediately.
	AcquireTimeoutSecond int

	// HealthCheckIntervalSec enables a background worker that re-creates
	// connections until the pool holds MinSize again. Zero disables it.
	HealthCheckIntervalSec int
}

// DefaultPoolConfig returns a PoolConfig with the default sizing parameters.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		Client:               DefaultClientConfig(),
		MinSize:              2,
		MaxSize:              10,
		AcquireTimeoutSecond: 30,
	}
}

// AcquireTimeout returns the acquire timeout as a duration (0 = immediate fail).
func (c *PoolConfig) AcquireTimeout() time.Duration {
	if c.AcquireTimeoutSecond <= 0 {
		return 0
	}
	return time.Duration(c.AcquireTimeoutSecond) * time.Second
}

// HealthCheckInterval returns the health check interval (0 = disabled).
func (c *PoolConfig) HealthCheckInterval() time.Duration {
	if c.HealthCheckIntervalSec <= 0 {
		return 0
	}
	return time.Duration(c.HealthCheckIntervalSec) * time.Second
}

// String returns a formatted string representation of the pool configuration.
func (c *PoolConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Pool")
	addField("Min Size", strconv.Itoa(c.MinSize))
	addField("Max Size", strconv.Itoa(c.MaxSize))
	addField("Acquire Timeout", fmt.Sprintf("%d sec", c.AcquireTimeoutSecond))
	addField("Health Check", fmt.Sprintf("%d sec", c.HealthCheckIntervalSec))

	sb.WriteString(c.Client.String())

	return sb.String()
}
