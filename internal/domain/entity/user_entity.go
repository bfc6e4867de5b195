package entity

// User is the aggregate root for the credential domain
// Passwords are stored as bcrypt hashes in Password field
//
// Users are created once at registration and never updated.
type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"`
}
