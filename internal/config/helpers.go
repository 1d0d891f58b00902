package config

import (
	"net"
	"strconv"
)

// Address is the listen address of the HTTP server
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// CacheEnabled reports whether derived results are memoized
func (c *Config) CacheEnabled() bool {
	return c.Cache.Type != "" && c.Cache.Type != "none"
}
