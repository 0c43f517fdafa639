package line

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// SignatureHeader carries the request body signature on LINE webhooks.
const SignatureHeader = "X-Line-Signature"

// ComputeSignature returns the base64-encoded HMAC-SHA256 of body keyed
// by the channel secret.
func ComputeSignature(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidateSignature verifies a webhook signature in constant time.
func ValidateSignature(channelSecret, signature string, body []byte) bool {
	if signature == "" {
		return false
	}
	expected := ComputeSignature(channelSecret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
