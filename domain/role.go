package domain

type Role string

const (
	RoleBuyer         Role = "buyer"
	RoleSeller        Role = "seller"
	RoleDeliveryAgent Role = "delivery_agent"
	RoleAdmin         Role = "admin"
)

// AccountRoles are the roles backed by their own account table.
var AccountRoles = []Role{RoleBuyer, RoleSeller, RoleDeliveryAgent}

func (r Role) IsAccountRole() bool {
	for _, ar := range AccountRoles {
		if r == ar {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
