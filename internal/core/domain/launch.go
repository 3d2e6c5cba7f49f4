package domain

import (
	"net"
	"strconv"
)

// LaunchConfig holds the resolved parameters for starting the server.
//
// Every field has a default. Reload is only true in development mode.
// A LaunchConfig is built once per boot and passed by value.
type LaunchConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	LogLevel  string `json:"log_level"`
	Reload    bool   `json:"reload"`
	NodeType  string `json:"node_type"`
	NodeName  string `json:"node_name"`
	AppModule string `json:"app_module"`
}

// Addr returns the host:port bind address.
func (c LaunchConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
