// Package types stores the per user "types" returned next to auth tokens.
//
// Every new account is seeded with a default set of names. The Repository
// satisfies the auth ProfileProvider interface so it can be handed straight
// to the authenticator.
package types
