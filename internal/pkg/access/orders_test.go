package access

import "testing"

func TestReadOrders(t *testing.T) {
	tests := []struct {
		name string
		p    Principal
		want OrderFilter
	}{
		{name: "anonymous is denied", p: Anonymous(), want: OrderFilter{Denied: true}},
		{name: "user sees own rows", p: Principal{UserID: 7, Authenticated: true}, want: OrderFilter{UserID: 7}},
		{name: "superadmin sees all", p: Principal{UserID: 1, Authenticated: true, SuperAdmin: true}, want: OrderFilter{All: true}},
		{name: "system sees all", p: SystemPrincipal(), want: OrderFilter{All: true}},
	}

	for _, tt := range tests {
		if got := ReadOrders(tt.p); got != tt.want {
			t.Fatalf("%s: ReadOrders(%+v) = %+v, want %+v", tt.name, tt.p, got, tt.want)
		}
	}
}

func TestCanCreateOrder(t *testing.T) {
	if CanCreateOrder(Principal{UserID: 7, Authenticated: true}) {
		t.Fatalf("regular users must not create orders directly")
	}
	if CanCreateOrder(Anonymous()) {
		t.Fatalf("anonymous must not create orders")
	}
	if !CanCreateOrder(SystemPrincipal()) {
		t.Fatalf("system principal must be allowed to create orders")
	}
	if !CanCreateOrder(Principal{Authenticated: true, SuperAdmin: true}) {
		t.Fatalf("superadmin must be allowed to create orders")
	}
}

func TestMutationsAreSuperAdminOnly(t *testing.T) {
	system := SystemPrincipal()
	user := Principal{UserID: 7, Authenticated: true}
	admin := Principal{UserID: 1, Authenticated: true, SuperAdmin: true}

	for _, p := range []Principal{Anonymous(), user, system} {
		if CanUpdateOrder(p) || CanDeleteOrder(p) {
			t.Fatalf("principal %+v must not mutate orders", p)
		}
	}
	if !CanUpdateOrder(admin) || !CanDeleteOrder(admin) {
		t.Fatalf("superadmin must be allowed to mutate orders")
	}
}
