package contract

import "errors"

var (
	// ErrDuplicateKey is returned when a write violates a unique constraint
	// (tenants.slug, tenant_features(tenant_id, feature_key)).
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrNotFound is returned by writes that target a missing row.
	// Lookups return (nil, nil) instead.
	ErrNotFound = errors.New("record not found")
)
