package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Redis client configuration struct
// --------------------------------------------------------------------------

// DefaultKeyPrefix is the namespace used for all keys if no prefix is configured
const DefaultKeyPrefix = "kvsolar"

// ClientConfig holds all parameters needed to open a connection to the key-value store.
type ClientConfig struct {
	// Endpoints is a list of host:port addresses. A single endpoint opens a plain client,
	// multiple endpoints open a cluster client.
	Endpoints []string
	Password  string
	DB        int

	// TimeoutSecond is used for dial, read and write timeouts
	TimeoutSecond int
	RetryCount    int
	PoolSize      int

	// KeyPrefix namespaces all keys generated by the keys package
	KeyPrefix string

	// Logging configuration
	LogLevel string
}

// Timeout returns the configured timeout as a time.Duration
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// Prefix returns the configured key prefix or DefaultKeyPrefix if none is set
func (c *ClientConfig) Prefix() string {
	if c.KeyPrefix == "" {
		return DefaultKeyPrefix
	}
	return c.KeyPrefix
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Pool Size", strconv.Itoa(int(math.Max(0, float64(c.PoolSize)))))
	addField("Database", strconv.Itoa(c.DB))
	addField("Password", maskSecret(c.Password))

	// Keys
	addSection("Keys")
	addField("Prefix", c.Prefix())

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

// maskSecret hides everything but the length of a secret
func maskSecret(s string) string {
	if s == "" {
		return "<none>"
	}
	return strings.Repeat("*", len(s))
}
