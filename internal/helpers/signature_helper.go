package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// CallbackVerifier checks the signature the payment provider sends with its
// confirmation webhook: HMAC-SHA256 over the raw request body, base64
// encoded, in the Signature header.
type CallbackVerifier struct {
	SecretKey string
}

func NewCallbackVerifier(secretKey string) *CallbackVerifier {
	return &CallbackVerifier{SecretKey: secretKey}
}

func (v *CallbackVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(v.SecretKey))
	mac.Write(body)
	return "HMACSHA256=" + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (v *CallbackVerifier) Verify(body []byte, signature string) bool {
	expected := v.Sign(body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
