package types

import "time"

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user, assigned once at creation.
	ID int64 `json:"id" db:"id"`

	// Username is the unique agent handle chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's unique email address.
	Email string `json:"email" db:"email"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty" db:"phone"`

	// ProfilePicture is the reference path of the stored avatar,
	// empty until the first upload.
	ProfilePicture string `json:"profile_picture,omitempty" db:"profile_picture"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
