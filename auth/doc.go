// Package auth provides the authentication primitives for Rootline: bcrypt
// credential hashing, JWT session token issuance and validation, session
// objects, and the activity event types consumed by the audit recorder.
//
// The package is persistence-agnostic. Identity lookups happen through the
// IdentityProvider interface so the store layer can supply users without
// this package importing it. Signing configuration is injected once at
// construction through Config; there is no key rotation, and a rotated key
// invalidates every outstanding token.
//
// Session tokens are self-contained: possession of a structurally valid,
// unexpired, correctly signed token is proof of identity. There is no
// server-side revocation, so logout is cookie clearing only and previously
// issued tokens remain valid until their natural expiry.
package auth
