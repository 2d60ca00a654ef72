package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackVerifier(t *testing.T) {
	verifier := NewCallbackVerifier("webhook-secret")
	body := []byte(`{"order_id":"abc","status":"paid"}`)

	signature := verifier.Sign(body)
	assert.True(t, verifier.Verify(body, signature))

	t.Run("rejects tampered body", func(t *testing.T) {
		assert.False(t, verifier.Verify([]byte(`{"order_id":"abc","status":"PAID"}`), signature))
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		other := NewCallbackVerifier("different-secret")
		assert.False(t, other.Verify(body, signature))
	})

	t.Run("rejects empty signature", func(t *testing.T) {
		assert.False(t, verifier.Verify(body, ""))
	})
}
