package domain

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleVendor, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"passwordHash"`
	Role         Role      `json:"role"`
	VendorID     *string   `json:"vendorId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public returns the user without its password hash.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

type SignUpInput struct {
	Name     string  `json:"name" validate:"required,min=2,max=100"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    string  `json:"phone,omitempty" validate:"omitempty,whatsapp"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     Role    `json:"role" validate:"omitempty,oneof=buyer vendor admin"`
	VendorID *string `json:"vendorId,omitempty"`
}

// SignUpResult reports the outcome of a registration. Conflicts are reported
// here rather than as errors.
type SignUpResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}
