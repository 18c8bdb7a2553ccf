package domain

// Back-office roles. SALES works with quotes and orders; ADMIN
// additionally manages the catalog, mapping rules and accounts.
const (
	RoleAdmin = "ADMIN"
	RoleSales = "SALES"
)

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"` // ADMIN | SALES
}

// IsAdmin reports whether the account may manage catalog and users.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
