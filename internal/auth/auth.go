package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verifier checks presented connection tokens against the process-wide
// secret. Token issuance lives outside the room engine; the same digest is
// exposed here so the credential endpoint and the verifier cannot drift.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Token returns the HMAC-SHA256 hex digest of id and name under the secret.
func (v *Verifier) Token(id, name string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(id))
	mac.Write([]byte(name))

	return hex.EncodeToString(mac.Sum(nil))
}

func (v *Verifier) Verify(id, name, presented string) bool {
	return hmac.Equal([]byte(v.Token(id, name)), []byte(presented))
}
