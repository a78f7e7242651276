package platform

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// WebhookVerifier checks that an inbound event genuinely originates from
// the chat platform. It is the sole trust boundary for platform events:
// an invalid signature must short-circuit all downstream processing.
type WebhookVerifier struct {
	secret []byte
}

func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// VerifySignature recomputes the HMAC-SHA256 of the raw body and compares
// it against the hex-encoded signature header in constant time. Malformed
// input is never an error, just invalid.
func (v *WebhookVerifier) VerifySignature(body []byte, signatureHeader string) bool {
	provided, err := hex.DecodeString(strings.TrimSpace(signatureHeader))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), provided)
}

// Sign computes the hex signature for a body. Used by tests and by
// outbound tooling that replays events against a local instance.
func (v *WebhookVerifier) Sign(body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
