package models

import (
	"database/sql/driver"
	"fmt"
)

// AccountType is the closed set of account roles. The zero value is invalid, so an
// account loaded from storage always carries one of AccountAdmin or AccountClub.
type AccountType uint8

const (
	AccountAdmin AccountType = iota + 1
	AccountClub
)

// ParseAccountType converts the stored representation into an AccountType
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "admin":
		return AccountAdmin, nil
	case "club":
		return AccountClub, nil
	default:
		return 0, fmt.Errorf("unknown account type %q", s)
	}
}

func (t AccountType) String() string {
	switch t {
	case AccountAdmin:
		return "admin"
	case AccountClub:
		return "club"
	default:
		return "invalid"
	}
}

// Valid reports whether t is one of the declared roles
func (t AccountType) Valid() bool {
	return t == AccountAdmin || t == AccountClub
}

// Value implements driver.Valuer
func (t AccountType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid account type %d", t)
	}
	return t.String(), nil
}

// Scan implements sql.Scanner
func (t *AccountType) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into AccountType", src)
	}
	parsed, err := ParseAccountType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (t AccountType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid account type %d", t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *AccountType) UnmarshalText(b []byte) error {
	parsed, err := ParseAccountType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// SkipUnderlyingTypePlan keeps pgx on Scan and Value instead of the uint8 kind
func (t AccountType) SkipUnderlyingTypePlan() {}
