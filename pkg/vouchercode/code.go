// Package vouchercode generates claim codes for vouchers whose code type is
// CLAIM. Codes are 12 uppercase alphanumeric characters grouped in blocks of
// four (XXXX-XXXX-XXXX).
package vouchercode

import (
	"crypto/rand"
	"strings"
)

const (
	codeLength = 12
	groupSize  = 4
	charset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generate returns a new random voucher code.
func Generate() string {
	buf := make([]byte, codeLength)
	// rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(buf)

	var b strings.Builder
	b.Grow(codeLength + codeLength/groupSize - 1)
	for i, c := range buf {
		if i > 0 && i%groupSize == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(charset[int(c)%len(charset)])
	}
	return b.String()
}
