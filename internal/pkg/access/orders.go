// Package access holds the pure authorization policy for order records.
// Decisions never touch the database: reads produce a filter the repository
// pushes into the WHERE clause, so a non-superadmin can never see foreign
// orders even through bulk queries.
package access

// Principal describes the acting identity of a request. The webhook processor
// runs as the explicit System principal; it is never modeled as "no session".
type Principal struct {
	UserID        uint
	Authenticated bool
	SuperAdmin    bool
	System        bool
}

// Anonymous is the principal of an unauthenticated request.
func Anonymous() Principal {
	return Principal{}
}

// SystemPrincipal is the trusted in-process identity used for
// webhook-originated writes.
func SystemPrincipal() Principal {
	return Principal{System: true, Authenticated: true}
}

// OrderFilter is a record-level read predicate. When Denied is false and All
// is false, the storage layer must restrict results to user_id = UserID.
type OrderFilter struct {
	Denied bool
	All    bool
	UserID uint
}

// ReadOrders returns the row filter for listing or fetching orders.
func ReadOrders(p Principal) OrderFilter {
	switch {
	case p.SuperAdmin || p.System:
		return OrderFilter{All: true}
	case p.Authenticated:
		return OrderFilter{UserID: p.UserID}
	default:
		return OrderFilter{Denied: true}
	}
}

// CanCreateOrder permits the system principal (webhook fulfillment) and
// superadmins. Regular users never create orders directly; fulfillment does.
func CanCreateOrder(p Principal) bool {
	return p.System || p.SuperAdmin
}

// CanUpdateOrder permits superadmin corrections only.
func CanUpdateOrder(p Principal) bool {
	return p.SuperAdmin
}

// CanDeleteOrder permits superadmin deletion only.
func CanDeleteOrder(p Principal) bool {
	return p.SuperAdmin
}
