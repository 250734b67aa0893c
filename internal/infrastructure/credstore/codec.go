// Package credstore holds the credential store implementations used by the
// portal to keep a session across restarts.
package credstore

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/payments-portal/portal/internal/core/domain"
)

// Logical keys of the credential record.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

var validate = validator.New()

// EncodeUser serialises the cached profile.
func EncodeUser(u domain.User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return string(b), nil
}

// DecodeUser parses a stored profile. Anything that does not round-trip into
// a valid User is rejected.
func DecodeUser(raw string) (domain.User, bool) {
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return domain.User{}, false
	}
	if err := validate.Struct(u); err != nil {
		return domain.User{}, false
	}
	return u, true
}
