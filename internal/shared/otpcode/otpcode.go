package otpcode

import (
	"errors"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

var ErrEmptySecret = errors.New("totp secret is empty")

// Generate returns the 6-digit TOTP code for secret at t.
func Generate(secret string, t time.Time) (string, error) {
	secret = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(secret), " ", ""))
	if secret == "" {
		return "", ErrEmptySecret
	}
	return totp.GenerateCode(secret, t)
}
