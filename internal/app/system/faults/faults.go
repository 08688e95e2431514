// internal/app/system/faults/faults.go

// Package faults defines the error taxonomy shared by the membership,
// provisioning, cascade and identity layers. Handlers map these to HTTP
// status codes; services wrap them with context via fmt.Errorf and %w.
package faults

import "errors"

var (
	// ErrInvalidReference marks a malformed or unresolvable entity id.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrNotFound marks an entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyMember marks an add for a (user, entity) pair that
	// already holds a membership entry.
	ErrAlreadyMember = errors.New("already a member")

	// ErrNotAMember marks a role change for a (user, entity) pair with
	// no membership entry.
	ErrNotAMember = errors.New("not a member")

	// ErrSyncTimeout marks an identity lookup that exhausted its polling
	// budget before the provider-side record was mirrored locally.
	// Distinct from "no such identity upstream": the caller may retry
	// the whole flow.
	ErrSyncTimeout = errors.New("identity sync timeout")

	// ErrProviderError marks a failure talking to the identity or
	// messaging provider.
	ErrProviderError = errors.New("provider error")
)
