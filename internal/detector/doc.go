// Package detector implements the redirect loop check: every outgoing
// redirect target is compared against the reconstructed URL of the current
// request, and a match triggers stack analysis and reporting.
//
// The detector is a pure observer on the redirect filter chain. It always
// returns the target it was given, so its presence never changes where a
// request is redirected; detection is strictly a side channel.
package detector
