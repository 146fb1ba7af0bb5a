package session

import "auragym/internal/domain/account"

// Decision is the outcome of a role check.
type Decision int

const (
	DecisionUnauthenticated Decision = iota
	DecisionWrongRole
	DecisionAllowed
)

func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionWrongRole:
		return "wrong_role"
	default:
		return "unauthenticated"
	}
}

// Authorize decides whether identity may enter a route group requiring role.
// A nil identity is an anonymous request.
func Authorize(identity *Identity, required account.Role) Decision {
	if identity == nil || identity.AccountID == "" {
		return DecisionUnauthenticated
	}
	if identity.Role != required {
		return DecisionWrongRole
	}
	return DecisionAllowed
}
