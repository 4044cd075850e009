// Package hook provides the pluggable filter machinery the redirect path
// runs through before a redirect response is emitted.
//
// Applications emit redirects via Registry.Redirect or Registry.SafeRedirect
// rather than writing Location headers directly. Both run the proposed
// target through an ordered chain of named filters, which lets observers
// such as the loop detector see every outgoing redirect target at a fixed
// point, after other filters have had their say and before emission.
//
// Design decision: Filters carry a numeric priority and run in ascending
// order, with registration order breaking ties. This keeps the contract
// between independent filter authors simple and makes "observe last"
// expressible as a priority constant rather than a registration-order
// convention.
package hook
