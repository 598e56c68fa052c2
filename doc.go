// Package auth implements a stateless token authentication core: account
// registration, credential verification, and signed access/refresh token
// issuance that downstream services can validate without a shared session
// store.
//
// Token model:
//   - Access tokens are short lived, carry the account's role list, and are
//     presented as "Authorization: Bearer <token>" on every request.
//   - Refresh tokens are long lived, carry only the subject plus a refresh
//     marker, and exist solely to mint a new token pair. Roles are re-read
//     from the account record on refresh so stale role claims never survive
//     a rotation.
//
// Request pipeline:
//   - The middleware/jwtware gate runs once per request, resolves an
//     Identity from a valid bearer token, and binds it to the request
//     context. It never rejects a request on its own; protected handlers
//     decide later whether an anonymous caller is acceptable.
//
// All collaborators (Accounts store, PasswordAuthenticator, TokenService)
// are explicit constructor arguments so the composition stays visible and
// testable.
package auth
