package security

import (
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"golang.org/x/crypto/bcrypt"
)

const kioskPasscodeHeader = "X-Kiosk-Passcode"

// KioskAuth guards the in-shop kiosk endpoints. The counter tablet sends a
// shared passcode in a header; only its bcrypt hash lives in configuration.
type KioskAuth struct {
	passcodeHash string
}

func NewKioskAuth(passcodeHash string) *KioskAuth {
	return &KioskAuth{passcodeHash: passcodeHash}
}

// Require rejects kiosk requests without a valid passcode. With no hash
// configured every request is rejected rather than silently trusted.
func (k *KioskAuth) Require() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if k.passcodeHash == "" {
			return apis.NewForbiddenError("Kiosk access is not configured", nil)
		}

		passcode := e.Request.Header.Get(kioskPasscodeHeader)
		if passcode == "" {
			return apis.NewUnauthorizedError("Kiosk passcode required", nil)
		}
		if !k.verify(passcode) {
			return apis.NewUnauthorizedError("Invalid kiosk passcode", nil)
		}

		return e.Next()
	}
}

func (k *KioskAuth) verify(passcode string) bool {
	return bcrypt.CompareHashAndPassword([]byte(k.passcodeHash), []byte(passcode)) == nil
}
