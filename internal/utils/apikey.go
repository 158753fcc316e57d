// Package utils holds small helpers shared across layers.
package utils

import "github.com/google/uuid"

// GenerateAPIKey returns a fresh opaque credential. UUIDv4 gives 122
// bits of randomness, which is plenty for a bearer token that is also
// stored verbatim for exact-match lookup.
func GenerateAPIKey() string {
	return uuid.NewString()
}
