package models

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleTechnician Role = "TECHNICIAN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleTechnician:
		return true
	}
	return false
}

// User is a shop login. Accounts are managed outside this service and loaded from the
// config file; ID doubles as the technician id on time entries.
type User struct {
	ID           string `toml:"id" json:"id"`
	Username     string `toml:"username" json:"username"`
	FullName     string `toml:"full_name" json:"full_name"`
	PasswordHash string `toml:"password_hash" json:"-"`
	Role         Role   `toml:"role" json:"role"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

func (u *User) IsTechnician() bool {
	return u.Role == RoleTechnician
}

func (u *User) CanViewTimeFor(technicianID string) bool {
	if u.CanViewAllTime() {
		return true
	}
	return u.ID == technicianID
}

func (u *User) CanViewAllTime() bool {
	return u.IsAdmin() || u.IsManager()
}

func (u *User) CanAdjustTime() bool {
	return u.IsAdmin() || u.IsManager()
}
