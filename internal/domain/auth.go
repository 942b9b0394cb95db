package domain

// Principal is the verified identity attached to a request.
type Principal struct {
	ID          int64
	AccountType AccountType
}

// Is reports whether the principal holds the given role.
func (p Principal) Is(role AccountType) bool {
	return p.AccountType == role
}
