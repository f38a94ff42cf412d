// Package auth holds the account model shared by the auth store, service and
// handler.
package auth

import (
	"time"

	id "covera/pkg/domain"
)

// User is a registered account. PasswordHash is a bcrypt hash; the plaintext
// password never leaves the registration and login paths.
type User struct {
	ID           id.UserID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
