package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"
)

// Error codes surfaced in response bodies.
const (
	ErrCodeInvalidAmount         = "INVALID_AMOUNT"
	ErrCodeClientNotFound        = "CLIENT_NOT_FOUND"
	ErrCodeProviderNotConfigured = "PROVIDER_NOT_CONFIGURED"
	ErrCodeInvalidSignature      = "INVALID_SIGNATURE"
)

// Payment order statuses
const (
	StatusCreated = "created"
	StatusPaid    = "paid"
)

// USDToINRRate is the fixed display-to-settlement conversion rate.
// Razorpay settles in INR; clients see USD.
const USDToINRRate = 83

// ValidAmount reports whether a client-supplied amount can be charged.
func ValidAmount(amount float64) bool {
	return amount > 0 && !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// ToPaise converts a USD amount to integer INR minor units, which is what
// Razorpay's order API demands.
func ToPaise(amountUSD float64) int64 {
	return int64(math.Round(amountUSD * USDToINRRate * 100))
}

// ToINR converts a USD amount to whole-currency INR for display.
func ToINR(amountUSD float64) float64 {
	return math.Round(amountUSD * USDToINRRate)
}

// ComputeSignature returns the hex HMAC-SHA256 digest Razorpay sends back
// after checkout, computed over "orderId|paymentId".
func ComputeSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a supplied signature against the recomputed
// digest using a constant-time comparison.
func VerifySignature(secret, orderID, paymentID, signature string) bool {
	expected := ComputeSignature(secret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}
