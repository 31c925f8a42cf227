package random

import (
	"crypto/rand"
	"math/big"
)

// Random abstracts randomness so code generation (match join codes) is
// deterministic in tests
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String returns a random string of length characters drawn from alphabet
	String(length int, alphabet string) string
}

// CryptoRandom draws from crypto/rand. Join codes are guessable by
// design (they are spoken aloud between players), but a CSPRNG costs
// nothing and avoids seeding concerns.
type CryptoRandom struct{}

// Ensure CryptoRandom implements Random
var _ Random = (*CryptoRandom)(nil)

// New creates a CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a random int in [0, n); zero when n is not positive
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		return 0
	}
	return int(v.Int64())
}

// String returns a random string of length characters drawn from alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(out)
}
