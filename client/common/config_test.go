package common

import (
	"strings"
	"testing"
	"time"
)

func TestClientConfigEndpoint(t *testing.T) {
	config := DefaultClientConfig()
	if config.Endpoint() != "localhost:4444" {
		t.Errorf("endpoint = %q", config.Endpoint())
	}

	config.Host = "::1"
	config.Port = 5555
	if config.Endpoint() != "[::1]:5555" {
		t.Errorf("ipv6 endpoint = %q", config.Endpoint())
	}
}

func TestClientConfigTimeout(t *testing.T) {
	config := DefaultClientConfig()
	if config.Timeout() != 30*time.Second {
		t.Errorf("timeout = %v", config.Timeout())
	}

	config.TimeoutSecond = 0
	if config.Timeout() != 0 {
		t.Errorf("zero must disable deadlines, got %v", config.Timeout())
	}
	config.TimeoutSecond = -5
	if config.Timeout() != 0 {
		t.Errorf("negative must disable deadlines, got %v", config.Timeout())
	}
}

func TestClientConfigStringMasksPassword(t *testing.T) {
	config := DefaultClientConfig()
	config.Username = "admin"
	config.Password = "hunter2"

	s := config.String()
	if strings.Contains(s, "hunter2") {
		t.Error("the password must never be printed")
	}
	if !strings.Contains(s, "admin") {
		t.Error("the username should be printed")
	}
}

func TestPoolConfigDurations(t *testing.T) {
	config := DefaultPoolConfig()
	if config.AcquireTimeout() != 30*time.Second {
		t.Errorf("acquire timeout = %v", config.AcquireTimeout())
	}
	if config.HealthCheckInterval() != 0 {
		t.Errorf("health check must default to disabled, got %v", config.HealthCheckInterval())
	}

	config.AcquireTimeoutSecond = 0
	if config.AcquireTimeout() != 0 {
		t.Errorf("zero acquire timeout must mean immediate failure, got %v", config.AcquireTimeout())
	}
}
