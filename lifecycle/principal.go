package lifecycle

// Role is the RBAC role carried by an authenticated principal.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleEmployee Role = "Employee"
)

// Principal is the authenticated caller of a request. It is built once per
// request by the identity middleware and never mutated afterwards.
type Principal struct {
	ID            string
	Role          Role
	AccountNumber string
}

func (p Principal) IsEmployee() bool {
	return p.Role == RoleEmployee
}

func (p Principal) IsCustomer() bool {
	return p.Role == RoleCustomer
}

func requireEmployee(p Principal, action string) error {
	if !p.IsEmployee() {
		return forbidden("Only employees may " + action)
	}
	return nil
}

func requireCustomer(p Principal) error {
	if !p.IsCustomer() {
		return forbidden("Only customers may create payments")
	}
	if p.AccountNumber == "" {
		return forbidden("Customer has no account number on record")
	}
	return nil
}
