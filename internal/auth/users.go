// Package auth checks operator credentials against the configured user list.
package auth

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoUsers is returned when the user list is empty
var ErrNoUsers = errors.New("no users configured")

// Users holds bcrypt hashes of the configured passwords
type Users struct {
	hashes map[string][]byte
	// compared against for unknown names so both paths cost one bcrypt check
	dummy []byte
}

// NewUsers hashes the plain-text passwords from configuration
func NewUsers(plain map[string]string) (*Users, error) {
	return NewUsersWithCost(plain, bcrypt.DefaultCost)
}

// NewUsersWithCost is NewUsers with an explicit bcrypt cost
func NewUsersWithCost(plain map[string]string, cost int) (*Users, error) {
	if len(plain) == 0 {
		return nil, ErrNoUsers
	}
	u := &Users{hashes: make(map[string][]byte, len(plain))}
	for name, password := range plain {
		if name == "" {
			return nil, errors.New("empty user name")
		}
		h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", name, err)
		}
		u.hashes[name] = h
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("platescan-dummy"), cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	u.dummy = dummy
	return u, nil
}

// Authenticate reports whether username exists and password matches
func (u *Users) Authenticate(username, password string) bool {
	hash, ok := u.hashes[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(u.dummy, []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// Names returns the configured user names, sorted
func (u *Users) Names() []string {
	names := make([]string, 0, len(u.hashes))
	for name := range u.hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
