// Package nanoid generates random identifiers and secrets.
package nanoid

import (
	"strings"

	"github.com/ncobase/accountdesk/consts"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	defaultSize = 16
)

func getSize(l ...int) int {
	size := defaultSize
	if len(l) > 0 && l[0] > 0 {
		size = l[0]
	}
	return size
}

// Must generate optional length nanoid
func Must(l ...int) string {
	return gonanoid.Must(getSize(l...))
}

// String generate optional length nanoid of letters
func String(l ...int) string {
	return gonanoid.MustGenerate(consts.LowerUpper, getSize(l...))
}

// Number generate optional length nanoid of digits
func Number(l ...int) string {
	return gonanoid.MustGenerate(consts.Number, getSize(l...))
}

// DemoID returns an id for an account created while the backend is unreachable
func DemoID() string {
	return gonanoid.MustGenerate(consts.Lowercase+consts.Number, consts.DemoIDSize)
}

// TempPassword returns a password that satisfies the strong password rules:
// at least one lowercase, uppercase, digit and special character.
func TempPassword() string {
	for {
		pw := gonanoid.MustGenerate(consts.All, consts.TempPasswordSize)
		if strings.ContainsAny(pw, consts.Lowercase) &&
			strings.ContainsAny(pw, consts.Uppercase) &&
			strings.ContainsAny(pw, consts.Number) &&
			strings.ContainsAny(pw, consts.Special) {
			return pw
		}
	}
}
