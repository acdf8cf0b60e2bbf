package tool

import (
	"crypto/rand"
	"math/big"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// couponCodeAlphabet omits 0/O and 1/I to keep codes readable over the phone.
const couponCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCouponCode returns a random uppercase code of the given length.
func GenerateCouponCode(length int) string {
	if length <= 0 {
		length = 8
	}
	b := make([]byte, length)
	max := big.NewInt(int64(len(couponCodeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			panic(err)
		}
		b[i] = couponCodeAlphabet[n.Int64()]
	}
	return string(b)
}
