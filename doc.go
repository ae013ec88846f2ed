// Package auth issues and verifies signed session tokens, registers and
// signs in users against a bun backed store, and gates go-router routes with
// a bearer token middleware.
//
// Tokens:
//   - TokenService signs HS256 JWTs whose subject is the user id. Verify
//     reports every failure (malformed, tampered, expired) as ErrInvalidToken.
//     There is no revocation; a token stays valid until it expires.
//
// Credentials:
//   - Emails are trimmed before validation. Passwords over the 72 byte bcrypt
//     limit fail with ErrPasswordTooLong.
//   - Auther.Signup registers a user, seeds its types and returns a token.
//   - Auther.Signin answers ErrInvalidCredentials for both unknown emails and
//     wrong passwords so callers can not enumerate accounts.
//
// HTTP:
//   - RegisterAuthRoutes mounts POST /signup and POST /signin. Both answer
//     201 with {token, email, types}.
//   - RouteAuthenticator.ProtectedRoute returns the request gate. Rejections
//     are 401 without a body; accepted requests carry the *User in router
//     locals and in the request context (see FromContext).
//
// Persistence:
//   - OpenDB runs the embedded migrations through a go-persistence-bun client.
package auth
