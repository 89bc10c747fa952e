// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across catalog/codec/workflow layers.
var (
	// ErrCatalogMissing indicates the configured catalog selector names no section.
	ErrCatalogMissing = errors.New("catalog missing")

	// ErrUnknownPlan indicates a plan id absent from the active catalog.
	ErrUnknownPlan = errors.New("unknown plan")

	// ErrMalformedToken indicates an action token that cannot be decoded.
	ErrMalformedToken = errors.New("malformed token")
)
