package models

import (
	"fmt"
	"strings"
	"time"
)

var _ Model = (*Token)(nil)

// Token is a persisted API bearer token for one account role.
type Token struct {
	id           string
	sequence     int
	role         string
	value        string
	accountName  string
	accountEmail string
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewToken creates a token for role from a login/register session.
func NewToken(sequence int, role string, session Session) *Token {
	now := time.Now()
	return &Token{
		sequence:     sequence,
		role:         role,
		value:        session.Token,
		accountName:  session.Account.Name,
		accountEmail: session.Account.Email,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (t *Token) ID() string            { return t.id }
func (t *Token) Sequence() int         { return t.sequence }
func (t *Token) Role() string          { return t.role }
func (t *Token) Value() string         { return t.value }
func (t *Token) AccountName() string   { return t.accountName }
func (t *Token) AccountEmail() string  { return t.accountEmail }
func (t *Token) CreatedAt() time.Time  { return t.createdAt }
func (t *Token) UpdatedAt() time.Time  { return t.updatedAt }
func (t *Token) DeletedAt() *time.Time { return t.deletedAt }

func (t *Token) SetID(id string)               { t.id = id }
func (t *Token) SetSequence(seq int)           { t.sequence = seq }
func (t *Token) SetValue(v string)             { t.value = v }
func (t *Token) SetCreatedAt(ts time.Time)     { t.createdAt = ts }
func (t *Token) SetUpdatedAt(ts time.Time)     { t.updatedAt = ts }
func (t *Token) SetDeletedAt(ts *time.Time)    { t.deletedAt = ts }
func (t *Token) SetAccount(name, email string) { t.accountName, t.accountEmail = name, email }

// Masked returns the token with all but the last four characters hidden.
func (t *Token) Masked() string {
	if len(t.value) <= 4 {
		return strings.Repeat("*", len(t.value))
	}
	return strings.Repeat("*", 8) + t.value[len(t.value)-4:]
}

// Validate checks that the token has an ID, a known role and a value.
func (t *Token) Validate() error {
	if t.id == "" {
		return fmt.Errorf("token id is required")
	}
	if t.role != "listener" && t.role != "contributor" {
		return fmt.Errorf("invalid token role %q", t.role)
	}
	if strings.TrimSpace(t.value) == "" {
		return fmt.Errorf("token value is required")
	}
	return nil
}
