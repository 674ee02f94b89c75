package models

import "time"

// Account is the login identity of an administrator or a club
type Account struct {
	ID           int64       `json:"id" db:"id"`
	Username     string      `json:"username" db:"username"`
	Email        string      `json:"email" db:"email"`
	PasswordHash string      `json:"-" db:"password_hash"`
	AccountType  AccountType `json:"accountType" db:"account_type"`
	IsApproved   bool        `json:"isApproved" db:"is_approved"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`

	// Club is loaded for club accounts when the query joins it
	Club *Club `json:"club,omitempty"`
}

// IsAdmin reports whether the account belongs to the university administration
func (a *Account) IsAdmin() bool {
	return a != nil && a.AccountType == AccountAdmin
}

// IsClub reports whether the account belongs to a club
func (a *Account) IsClub() bool {
	return a != nil && a.AccountType == AccountClub
}

// CanPost is true for admins and for approved clubs
func (a *Account) CanPost() bool {
	if a.IsAdmin() {
		return true
	}
	return a.IsClub() && a.IsApproved
}

// DashboardPath is the landing page after a successful login
func (a *Account) DashboardPath() string {
	if a.IsAdmin() {
		return "/admin/dashboard"
	}
	return "/club/dashboard"
}

// DisplayName is the club name for clubs and the username otherwise
func (a *Account) DisplayName() string {
	if a == nil {
		return DeletedAccountName
	}
	if a.IsClub() && a.Club != nil {
		return a.Club.Name
	}
	return a.Username
}

// PublicName is how the account is shown to other users: the administration
// label for admins, the club name for clubs, DeletedAccountName for nil.
func (a *Account) PublicName() string {
	if a.IsAdmin() {
		return AdminAuthorName
	}
	return a.DisplayName()
}

// DeletedAccountName stands in for a message party whose account no longer exists
const DeletedAccountName = "Deleted account"
