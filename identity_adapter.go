package auth

// authIdentity is the in-process representation of an authenticated caller.
// It is immutable and scoped to a single request.
type authIdentity struct {
	username string
	roles    []string
}

// NewIdentity returns an Identity for the given username and role set
func NewIdentity(username string, roles []string) Identity {
	return authIdentity{username: username, roles: roles}
}

// NewIdentityFromAccount adapts an Account into the Identity interface for
// token generation.
func NewIdentityFromAccount(account *Account) Identity {
	if account == nil {
		return nil
	}
	return authIdentity{username: account.Username, roles: account.Roles}
}

// IdentityFromClaims resolves a verified claim set into an Identity. Claims
// must have been decoded (signature checked) before calling this.
func IdentityFromClaims(claims AuthClaims) Identity {
	if claims == nil {
		return nil
	}
	return authIdentity{username: claims.Subject(), roles: claims.RoleList()}
}

func (i authIdentity) Username() string {
	return i.username
}

func (i authIdentity) Roles() []string {
	return i.roles
}

func (i authIdentity) HasRole(role string) bool {
	for _, r := range i.roles {
		if r == role {
			return true
		}
	}
	return false
}
