package models

import "strings"

// Roles is the permission set of a user.
type Roles uint8

const (
	RoleAdmin Roles = 1 << iota
	RoleStaff
	RoleCustomer
)

const NoRoles Roles = 0

var roleNames = []struct {
	role Roles
	name string
}{
	{RoleAdmin, "ADMIN"},
	{RoleStaff, "STAFF"},
	{RoleCustomer, "CUSTOMER"},
}

func (r Roles) Has(role Roles) bool { return r&role == role && role != 0 }

func (r Roles) Intersects(other Roles) bool { return r&other != 0 }

func (r Roles) With(role Roles) Roles { return r | role }

func (r Roles) Without(role Roles) Roles { return r &^ role }

func (r Roles) Names() []string {
	out := make([]string, 0, len(roleNames))
	for _, rn := range roleNames {
		if r.Has(rn.role) {
			out = append(out, rn.name)
		}
	}
	return out
}

func (r Roles) String() string {
	if r == NoRoles {
		return "NONE"
	}
	return strings.Join(r.Names(), "|")
}

// ParseRoles accepts role names case-insensitively and ignores unknown ones.
func ParseRoles(names ...string) Roles {
	var out Roles
	for _, n := range names {
		for _, rn := range roleNames {
			if strings.EqualFold(strings.TrimSpace(n), rn.name) {
				out |= rn.role
			}
		}
	}
	return out
}
