package user

import "github.com/google/uuid"

// User is a marketplace account. Every account carries exactly one role
// (farmer or buyer), fixed at sign-up.
type User struct {
	ID        uuid.UUID `json:"userId"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone,omitempty"`
	Location  string    `json:"location,omitempty"`
	AvatarURL *string   `json:"avatarUrl,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt string    `json:"createdAt,omitempty"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
}
