package user

// Role is assigned at sign-up and never changes afterwards.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleBuyer  Role = "buyer"
)

// Capability names an action gated by role. Services consult Role.Can
// instead of comparing role strings inline, so every authorization
// decision goes through this one table.
type Capability string

const (
	CapPlaceOrder     Capability = "place-order"
	CapManageOrders   Capability = "manage-orders"
	CapManageListings Capability = "manage-listings"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleBuyer: {
		CapPlaceOrder: true,
	},
	RoleFarmer: {
		CapManageOrders:   true,
		CapManageListings: true,
	},
}

func (r Role) Valid() bool {
	return r == RoleFarmer || r == RoleBuyer
}

// Can reports whether the role is allowed to perform the given action.
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

func (r Role) String() string {
	return string(r)
}
