package security

import (
	"fmt"
	"strings"

	"github.com/pquerna/otp/totp"
)

// GenerateTOTPSecret creates a new TOTP secret for an admin account and
// returns the secret plus the otpauth provisioning URL.
func GenerateTOTPSecret(issuer, account string) (secret, url string, err error) {
	key, errGenerate := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: account,
	})
	if errGenerate != nil {
		return "", "", fmt.Errorf("security: generate totp secret: %w", errGenerate)
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTP reports whether the code matches the secret at the current time.
func ValidateTOTP(secret, code string) bool {
	secret = strings.TrimSpace(secret)
	code = strings.TrimSpace(code)
	if secret == "" || code == "" {
		return false
	}
	return totp.Validate(code, secret)
}
