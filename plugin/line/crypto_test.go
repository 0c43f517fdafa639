package line

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeSignature(t *testing.T) {
	// Vector computed independently with HMAC-SHA256 + base64.
	got := ComputeSignature("test-channel-secret", []byte(`{"events":[]}`))
	assert.Equal(t, "sKRrt+MTE71nWWZPaYrvYSdH9JGlgckmBidZxDuPgPc=", got)
}

func TestValidateSignature(t *testing.T) {
	secret := "test-channel-secret"
	body := []byte(`{"events":[{"type":"message"}]}`)
	signature := ComputeSignature(secret, body)

	assert.True(t, ValidateSignature(secret, signature, body))
	assert.False(t, ValidateSignature("wrong-secret", signature, body))
	assert.False(t, ValidateSignature(secret, signature, []byte("tampered")))
	assert.False(t, ValidateSignature(secret, "", body))
	assert.False(t, ValidateSignature(secret, "bm90LWEtc2lnbmF0dXJl", body))
}
