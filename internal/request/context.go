package request

import (
	"net"
	"net/http"
	"strings"
)

// Context is an immutable snapshot of the connection and header fields the
// current-URL resolver needs. It is taken once per request so that later
// header mutation by handlers cannot change the resolver's view.
type Context struct {
	// TLS indicates whether the request arrived over a TLS connection.
	TLS bool

	// Protocol is the protocol-version string, e.g. "HTTP/1.1".
	Protocol string

	// Port is the server port as a string, e.g. "80" or "8443".
	Port string

	// ServerName is the host name without any port, used as the last-resort
	// host when no Host or forwarded-host header is present.
	ServerName string

	// Host is the value of the Host header, possibly including a port.
	// Empty when the client sent no Host header.
	Host string

	// ForwardedHost is the value of the X-Forwarded-Host header.
	// Empty when no proxy supplied one.
	ForwardedHost string

	// RequestURI is the raw path and query exactly as sent by the client.
	RequestURI string
}

// Snapshot captures a Context from an incoming server request.
//
// The server port is taken from the Host header when present; absent an
// explicit port, the well-known port for the connection's scheme is assumed.
// This matches what the port-omission rule in CurrentURL expects.
func Snapshot(r *http.Request) Context {
	name, port := splitHostPort(r.Host)
	if port == "" {
		if r.TLS != nil {
			port = "443"
		} else {
			port = "80"
		}
	}

	return Context{
		TLS:           r.TLS != nil,
		Protocol:      r.Proto,
		Port:          port,
		ServerName:    name,
		Host:          r.Host,
		ForwardedHost: r.Header.Get("X-Forwarded-Host"),
		RequestURI:    r.RequestURI,
	}
}

// splitHostPort splits "host:port" leniently: a missing port yields the
// whole input as host and an empty port rather than an error.
func splitHostPort(hostport string) (host, port string) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return strings.TrimSuffix(hostport, ":"), ""
	}
	return host, port
}
