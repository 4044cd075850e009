// Package request reconstructs the canonical absolute URL of an in-flight
// HTTP request from raw connection and header state.
//
// The resolver mirrors long-standing server-side URL reconstruction
// behavior: the scheme is derived from the protocol-version string plus the
// TLS indicator, well-known ports are omitted, and the host is chosen by
// precedence (forwarded host, Host header, server name). The reconstructed
// URL is what the loop detector compares redirect targets against.
package request
