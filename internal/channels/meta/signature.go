package meta

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const signaturePrefix = "sha256="

// VerifySignature verifies the X-Hub-Signature-256 header against the raw
// request body. The digest must be computed over the exact bytes Meta sent;
// re-serializing a parsed payload breaks verification on non-canonical JSON.
func VerifySignature(appSecret string, body []byte, signature string) bool {
	if appSecret == "" || signature == "" {
		return false
	}
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	sigHex := signature[len(signaturePrefix):]
	if sigHex == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(sigHex))
}

// Sign computes the signature header value for a body. Used by tests and by
// local tooling that replays captured deliveries.
func Sign(appSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
