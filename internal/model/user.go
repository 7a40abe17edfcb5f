package model

import "time"

// User represents an account in the `users` table.  Both regular users and
// department admins live here, distinguished by Role; every account belongs
// to a department, which is what scopes an admin's booking visibility.
//
// Fields:
//
//	ID           – primary key identifier.
//	DeptID       – department the account belongs to.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password.
//	Role         – USER or ADMIN.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	DeptID       uint64    // users.dept_id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
