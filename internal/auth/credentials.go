package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/account-ledger/internal/logger"
)

// Credentials gates access to the ledger. The core services have no
// authentication concept; callers construct one of these from injected
// configuration and check it before wiring up a session.
type Credentials struct {
	username     string
	passwordHash string
}

func NewCredentials(username, passwordHash string) *Credentials {
	return &Credentials{
		username:     username,
		passwordHash: passwordHash,
	}
}

// Verify reports whether the supplied username and password match the
// configured admin credentials.
func (c *Credentials) Verify(username, password string) bool {
	if c.username == "" || c.passwordHash == "" {
		logger.Error("credentials provider missing configuration", nil, nil)
		return false
	}

	userOK := secureEqual(username, c.username)
	passErr := bcrypt.CompareHashAndPassword([]byte(c.passwordHash), []byte(password))
	if !userOK || passErr != nil {
		logger.Info("credentials provider rejected login", logger.Fields{
			"username": username,
		})
		return false
	}

	logger.Info("credentials provider accepted login", logger.Fields{
		"username": username,
	})
	return true
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// HashPassword produces a bcrypt hash suitable for ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
