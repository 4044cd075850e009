package hook

import (
	"fmt"
	"net/http"
	"net/url"
)

// DispatchFileSuffix identifies this file in captured stack frames. The
// stack-trace probe uses it to recognize the redirect-dispatch boundary, so
// the constant must track the file's import-path-relative location.
const DispatchFileSuffix = "internal/hook/redirect.go"

// Go function names, as reported by the runtime, of the two dispatch entry
// points the stack-trace probe needs to recognize.
const (
	// ApplyFiltersFunc is the generic filter-invocation function.
	ApplyFiltersFunc = "hook.(*Registry).ApplyFilters"

	// PlainRedirectFunc is the plain redirect entry point, which the safe
	// wrapper routes through.
	PlainRedirectFunc = "hook.(*Registry).Redirect"
)

// Redirect emits an HTTP redirect to location with the given status code,
// after running the target through the redirect filter chain.
//
// The filtered value is what gets emitted: filters may rewrite the target,
// and an empty filtered value cancels the redirect entirely. The status
// code must be a 3xx code.
func (reg *Registry) Redirect(w http.ResponseWriter, r *http.Request, location string, code int) error {
	if code < 300 || code > 399 {
		return fmt.Errorf("redirect status code %d is not a 3xx code", code)
	}

	location = reg.ApplyFilters(FilterRedirectTarget, w, r, location)
	if location == "" {
		reg.logger.Debug("redirect cancelled by filter", "path", r.URL.Path)
		return nil
	}

	w.Header().Set("Location", location)
	w.WriteHeader(code)
	return nil
}

// SafeRedirect validates location against the set of acceptable hosts
// before emitting it via Redirect. Relative targets and targets addressed
// to the request's own host always pass; absolute targets addressed
// elsewhere pass only when the host appears in the registry's allowed-hosts
// set. Targets that fail validation are replaced with the configured
// fallback URL rather than rejected, so handlers never need to handle a
// "redirect refused" case.
func (reg *Registry) SafeRedirect(w http.ResponseWriter, r *http.Request, location string, code int) error {
	safe := location
	if !reg.isAllowedTarget(r, location) {
		reg.logger.Warn("unsafe redirect target replaced with fallback",
			"target", location,
			"fallback", reg.fallbackURL,
		)
		safe = reg.fallbackURL
	}
	return reg.Redirect(w, r, safe, code)
}

// isAllowedTarget reports whether location may be emitted by SafeRedirect
// for the given request.
func (reg *Registry) isAllowedTarget(r *http.Request, location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}

	// Relative targets stay on the current host.
	if u.Host == "" {
		return true
	}
	if u.Host == r.Host {
		return true
	}

	if reg.allowedHosts != nil {
		for _, host := range reg.allowedHosts(r) {
			if u.Host == host {
				return true
			}
		}
	}
	return false
}
