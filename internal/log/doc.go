// Package log provides structured logging with automatic sanitization of
// sensitive values, built on top of the standard slog package.
//
// The guard logs request URLs, hosts, and occasionally header-derived
// values. Those can carry session cookies, tokens, and credentials, and a
// diagnostic log is exactly the kind of file that gets pasted into issues
// and chat. SecureHandler masks sensitive attributes before they reach the
// underlying handler, so even verbose logs are safe to share.
//
// Usage:
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Warn("redirect loop detected",
//	    "url", "https://example.com/a",
//	    "cookie", "session=abc123",  // masked in output
//	)
package log
