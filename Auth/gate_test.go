package Auth

import (
	"testing"

	"Helios/Models"
)

func TestIsAuthorized(t *testing.T) {
	all := []Models.Role{Models.RoleMasterAdmin, Models.RoleAdmin, Models.RoleEmployee}

	tests := []struct {
		name    string
		current Models.Role
		allowed []Models.Role
		want    bool
	}{
		{name: "no session", current: "", allowed: all, want: false},
		{name: "no session empty gate", current: "", allowed: nil, want: false},
		{name: "member", current: Models.RoleAdmin, allowed: []Models.Role{Models.RoleAdmin}, want: true},
		{name: "member of many", current: Models.RoleEmployee, allowed: all, want: true},
		{name: "not a member", current: Models.RoleEmployee, allowed: []Models.Role{Models.RoleAdmin}, want: false},
		{name: "empty gate denies everyone", current: Models.RoleAdmin, allowed: nil, want: false},
		// master_admin is not implicit: a gate that omits it denies it.
		{name: "master_admin not listed", current: Models.RoleMasterAdmin, allowed: []Models.Role{Models.RoleAdmin, Models.RoleEmployee}, want: false},
		{name: "master_admin listed", current: Models.RoleMasterAdmin, allowed: []Models.Role{Models.RoleMasterAdmin}, want: true},
		{name: "unknown role", current: Models.Role("intern"), allowed: all, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthorized(tt.current, tt.allowed); got != tt.want {
				t.Errorf("IsAuthorized(%q, %v) = %v, want %v", tt.current, tt.allowed, got, tt.want)
			}
		})
	}
}

func TestIsAuthorizedExhaustivePairs(t *testing.T) {
	roles := []Models.Role{Models.RoleMasterAdmin, Models.RoleAdmin, Models.RoleEmployee}

	// For every (current, subset) pair: allowed iff current is in the subset.
	for mask := 0; mask < 8; mask++ {
		var allowed []Models.Role
		for i, role := range roles {
			if mask&(1<<i) != 0 {
				allowed = append(allowed, role)
			}
		}
		for i, current := range roles {
			want := mask&(1<<i) != 0
			if got := IsAuthorized(current, allowed); got != want {
				t.Errorf("IsAuthorized(%q, %v) = %v, want %v", current, allowed, got, want)
			}
		}
	}
}

func TestDeny(t *testing.T) {
	if d := Deny(false); d.Status != 401 || d.Redirect != "/signin" {
		t.Errorf("Deny(false) = %+v, want 401 redirect to /signin", d)
	}
	if d := Deny(true); d.Status != 403 || d.Redirect != "/dashboard" {
		t.Errorf("Deny(true) = %+v, want 403 redirect to /dashboard", d)
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"master_admin", "admin", "employee"} {
		if _, ok := Models.ParseRole(valid); !ok {
			t.Errorf("ParseRole(%q) not ok", valid)
		}
	}
	if _, ok := Models.ParseRole("superuser"); ok {
		t.Error("ParseRole accepted an unknown role")
	}
}
