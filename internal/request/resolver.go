package request

import "strings"

// CurrentURL reconstructs the canonical absolute URL of the request
// described by ctx.
//
// The scheme token is the protocol-version string lowercased and truncated
// at its version separator, with "s" appended when TLS is indicated
// ("HTTP/1.1" over TLS becomes "https"). The port suffix is omitted for
// plain-HTTP port 80 and TLS port 443, and rendered as ":<port>" otherwise.
//
// Host precedence: the forwarded host (only when useForwardedHost is true),
// then the Host header, then the server name with the port suffix
// concatenated directly onto it. Only the server-name fallback attaches the
// computed port suffix; the header-derived hosts are used verbatim since
// clients and proxies include the port themselves when it matters. This
// asymmetry is long-standing behavior and is preserved deliberately.
//
// The raw request path and query are appended without re-encoding. The
// function is pure and does not fail: missing optional fields simply fall
// through the precedence rules.
func CurrentURL(ctx Context, useForwardedHost bool) string {
	scheme := strings.ToLower(ctx.Protocol)
	if i := strings.Index(scheme, "/"); i >= 0 {
		scheme = scheme[:i]
	}
	if ctx.TLS {
		scheme += "s"
	}

	portSuffix := ":" + ctx.Port
	if (!ctx.TLS && ctx.Port == "80") || (ctx.TLS && ctx.Port == "443") {
		portSuffix = ""
	}

	var host string
	switch {
	case useForwardedHost && ctx.ForwardedHost != "":
		host = ctx.ForwardedHost
	case ctx.Host != "":
		host = ctx.Host
	default:
		host = ctx.ServerName + portSuffix
	}

	return scheme + "://" + host + ctx.RequestURI
}

// UntrailingSlash strips any trailing path separators from s. The operation
// is idempotent, so comparing two URLs after normalization is insensitive to
// a dangling slash on either side.
func UntrailingSlash(s string) string {
	return strings.TrimRight(s, "/")
}
