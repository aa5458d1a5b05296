package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account kinds. Agency and admin accounts are back-office identities:
// they manage listings and promote reservations but may not create
// customer bookings themselves.
const (
	AccountKindCustomer = "customer"
	AccountKindAgency   = "agency"
	AccountKindAdmin    = "admin"
)

type User struct {
	gorm.Model
	FirstName           string         `json:"firstName"`
	LastName            string         `json:"lastName"`
	Email               string         `json:"email" gorm:"uniqueIndex"`
	PhoneNumber         string         `json:"phoneNumber"`
	Password            string         `json:"-"`
	AccountKind         string         `json:"accountKind" gorm:"type:varchar(20);default:customer;index"`
	Lang                string         `json:"lang" gorm:"size:2;default:fr"`
	PushTokens          datatypes.JSON `json:"pushTokens"`
	AllowsNotifications *bool          `json:"allowsNotifications"`
}

// IsBackOffice reports whether the account is an agency or admin
// identity, which is barred from creating customer reservations.
func (u *User) IsBackOffice() bool {
	return u.AccountKind == AccountKindAgency || u.AccountKind == AccountKindAdmin
}

// MarshalJSON renders PushTokens as a plain string slice.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		PushTokens []string `json:"pushTokens,omitempty"`
		*Alias
	}{
		PushTokens: []string{},
		Alias:      (*Alias)(u),
	}

	if u.PushTokens != nil {
		var tokens []string
		if err := json.Unmarshal(u.PushTokens, &tokens); err == nil {
			aux.PushTokens = tokens
		}
	}

	return json.Marshal(aux)
}
