package payment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		want   bool
	}{
		{"positive", 500, true},
		{"fractional", 0.01, true},
		{"zero", 0, false},
		{"negative", -10, false},
		{"nan", math.NaN(), false},
		{"positive infinity", math.Inf(1), false},
		{"negative infinity", math.Inf(-1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidAmount(tc.amount))
		})
	}
}

func TestToPaise(t *testing.T) {
	cases := []struct {
		name      string
		amountUSD float64
		want      int64
	}{
		{"whole amount", 500, 4_150_000},
		{"one dollar", 1, 8300},
		{"fractional cents round", 0.015, 125},
		{"small amount", 0.01, 83},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToPaise(tc.amountUSD))
		})
	}
}

func TestToINR(t *testing.T) {
	assert.Equal(t, float64(41500), ToINR(500))
	assert.Equal(t, float64(83), ToINR(1))
}

func TestSignatureRoundTrip(t *testing.T) {
	secret := "test_secret"
	sig := ComputeSignature(secret, "order_abc", "pay_xyz")
	assert.Len(t, sig, 64)
	assert.True(t, VerifySignature(secret, "order_abc", "pay_xyz", sig))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	secret := "test_secret"
	sig := ComputeSignature(secret, "order_abc", "pay_xyz")

	// Flip one hex digit
	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	assert.False(t, VerifySignature(secret, "order_abc", "pay_xyz", string(mutated)))

	// Wrong order or payment id
	assert.False(t, VerifySignature(secret, "order_other", "pay_xyz", sig))
	assert.False(t, VerifySignature(secret, "order_abc", "pay_other", sig))

	// Wrong secret
	assert.False(t, VerifySignature("other_secret", "order_abc", "pay_xyz", sig))

	// Empty signature
	assert.False(t, VerifySignature(secret, "order_abc", "pay_xyz", ""))
}

func TestSignatureDependsOnSeparator(t *testing.T) {
	// "ab|c" and "a|bc" must not collide
	secret := "s"
	sig1 := ComputeSignature(secret, "ab", "c")
	sig2 := ComputeSignature(secret, "a", "bc")
	assert.NotEqual(t, sig1, sig2)
}
