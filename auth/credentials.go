package auth

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// Credential is one login entry. Either Password or PasswordHash must be set.
type Credential struct {
	Username     string `yaml:"username"`
	Role         Role   `yaml:"role"`
	Password     string `yaml:"password,omitempty"`
	PasswordHash string `yaml:"password_hash,omitempty"`
}

type credentialsFile struct {
	Users []Credential `yaml:"users"`
}

type account struct {
	role Role
	hash []byte
}

// Credentials maps usernames to roles behind bcrypt hashes.
type Credentials struct {
	accounts map[string]account
}

// DefaultUsers are used when no credentials file is configured.
var DefaultUsers = []Credential{
	{Username: "cashier", Password: "cashier", Role: RoleCashier},
	{Username: "gudang", Password: "gudang", Role: RoleAdminGudang},
	{Username: "admin", Password: "admin", Role: RoleSuperAdmin},
}

// NewCredentials hashes plaintext passwords and validates every entry.
func NewCredentials(users []Credential) (*Credentials, error) {
	c := &Credentials{accounts: make(map[string]account, len(users))}
	for i, u := range users {
		name := strings.TrimSpace(u.Username)
		if name == "" {
			return nil, fmt.Errorf("credential %d: username required", i)
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("credential %s: unknown role %q", name, u.Role)
		}
		var hash []byte
		switch {
		case u.PasswordHash != "":
			if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
				return nil, fmt.Errorf("credential %s: %w", name, err)
			}
			hash = []byte(u.PasswordHash)
		case u.Password != "":
			h, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return nil, fmt.Errorf("credential %s: %w", name, err)
			}
			hash = h
		default:
			return nil, fmt.Errorf("credential %s: password or password_hash required", name)
		}
		c.accounts[name] = account{role: u.Role, hash: hash}
	}
	return c, nil
}

// LoadCredentials reads a YAML credentials file, or returns DefaultUsers when path is empty.
func LoadCredentials(path string) (*Credentials, error) {
	if path == "" {
		return NewCredentials(DefaultUsers)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var f credentialsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("credentials file %s has no users", path)
	}
	return NewCredentials(f.Users)
}

// Authenticate returns the role of username when password matches.
func (c *Credentials) Authenticate(username, password string) (Role, bool) {
	acc, ok := c.accounts[strings.TrimSpace(username)]
	if !ok {
		return "", false
	}
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return "", false
	}
	return acc.role, true
}
