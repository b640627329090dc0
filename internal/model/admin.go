package model

// Admin is a panel operator. The password hash never leaves the service
// layer; Profile is what handlers return.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	Email        string
}

// Profile is the public view of an admin.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (a Admin) Profile() Profile {
	return Profile{ID: a.ID, Username: a.Username, Email: a.Email}
}
