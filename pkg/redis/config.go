package redis

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config represents Redis configuration options
type Config struct {
	// Host is the Redis server host
	Host string
	// Port is the Redis server port
	Port int
	// Password is the Redis server password
	Password string
	// Database is the Redis database number
	Database int
	// MinIdleConns is the minimum number of idle (unused but open) connections
	MinIdleConns int
	// MaxIdleConns is the maximum number of idle connections to keep in the pool
	MaxIdleConns int
	// MaxActive is the maximum number of active connections that can be established
	MaxActive int
	// MaxRetries is the maximum number of retries for failed commands
	MaxRetries int
	// DialTimeout is the timeout for establishing connections
	DialTimeout time.Duration
	// ReadTimeout is the timeout for socket reads
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for socket writes
	WriteTimeout time.Duration
	// PoolTimeout is the timeout for getting connection from pool
	PoolTimeout time.Duration
}

// NewRedisConfig creates a new Redis configuration with default values
func NewRedisConfig() *Config {
	return &Config{
		Host:         "localhost",
		Port:         6379,
		Password:     "",
		Database:     0,
		MinIdleConns: 5,
		MaxIdleConns: 10,
		MaxActive:    100,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// WithHost sets the Redis server host
func (c *Config) WithHost(host string) *Config {
	c.Host = host
	return c
}

// WithPort sets the Redis server port
func (c *Config) WithPort(port int) *Config {
	if port < 1 || port > 65535 {
		panic(fmt.Sprintf("invalid port: %d, must be between 1 and 65535", port))
	}
	c.Port = port
	return c
}

// WithPassword sets the Redis server password
func (c *Config) WithPassword(password string) *Config {
	c.Password = password
	return c
}

// WithDatabase sets the Redis database number
func (c *Config) WithDatabase(database int) *Config {
	if database < 0 || database > 15 {
		panic(fmt.Sprintf("invalid database: %d, must be between 0 and 15", database))
	}
	c.Database = database
	return c
}

// WithMaxActive sets the maximum number of active connections
func (c *Config) WithMaxActive(maxActive int) *Config {
	if maxActive < 0 {
		panic(fmt.Sprintf("invalid max active connections: %d, must be non-negative", maxActive))
	}
	c.MaxActive = maxActive
	return c
}

// Addr is host:port
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DefaultConfig returns a default Redis configuration
func DefaultConfig() *Config {
	return NewRedisConfig()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1 and 65535", c.Port)
	}
	if c.Database < 0 || c.Database > 15 {
		return fmt.Errorf("invalid database: %d, must be between 0 and 15", c.Database)
	}
	if c.MinIdleConns < 0 || c.MaxIdleConns < 0 || c.MaxActive < 0 {
		return fmt.Errorf("invalid pool sizes: min idle %d, max idle %d, max active %d", c.MinIdleConns, c.MaxIdleConns, c.MaxActive)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("invalid max retries: %d, must be non-negative", c.MaxRetries)
	}
	if c.DialTimeout < 0 || c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.PoolTimeout < 0 {
		return fmt.Errorf("timeouts must be non-negative")
	}
	return nil
}
