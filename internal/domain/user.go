package domain

import "time"

// User is the persisted account record. Watchlist and Favourites are owned
// exclusively by this user and hold opaque caller-supplied items.
type User struct {
	ID           string
	Name         string
	Surname      string
	Email        string
	Phone        string
	PasswordHash []byte
	Watchlist    List
	Favourites   List
	CreatedAt    time.Time
}

// Profile is the public projection of a User. Phone and the password hash
// are deliberately absent.
type Profile struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	Email      string `json:"email"`
	Favourites List   `json:"favourites"`
	Watchlist  List   `json:"watchlist"`
}

// NewProfile projects a User into its public form.
func NewProfile(u *User) Profile {
	return Profile{
		ID:         u.ID,
		Name:       u.Name,
		Surname:    u.Surname,
		Email:      u.Email,
		Favourites: u.Favourites.orEmpty(),
		Watchlist:  u.Watchlist.orEmpty(),
	}
}
