// Package auth implements credential verification, token issuance and
// validation, and the set of active sessions that makes tokens revocable.
package auth

import "context"

// Identity is an authenticated username. The zero value is "nobody".
//
// Identity has no exported constructor: values come from Verifier.Verify
// or TokenService.Authenticate, so code holding one knows it was checked.
type Identity struct {
	name string
}

// Name returns the username.
func (i Identity) Name() string { return i.name }

// IsZero reports whether i is the zero Identity.
func (i Identity) IsZero() bool { return i.name == "" }

func (i Identity) String() string { return i.name }

type identityKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by NewContext, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && !id.IsZero()
}
