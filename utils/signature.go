package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentSignature computes the gateway checkout signature for an order/payment
// id pair: hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func PaymentSignature(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature reports whether the client-supplied signature matches
// the expected one. Comparison is constant time.
func VerifyPaymentSignature(orderID, paymentID, signature, secret string) bool {
	expected := PaymentSignature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
