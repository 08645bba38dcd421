// Package preview authorizes editors to view products that are not publicly visible.
package preview

import (
	"golang.org/x/crypto/bcrypt"
)

// QueryParam is the request parameter carrying the preview token.
const QueryParam = "preview"

type Verifier struct {
	hash []byte
}

// NewVerifier takes a bcrypt hash of the shared preview token. An empty hash disables previews.
func NewVerifier(hash string) *Verifier {
	return &Verifier{hash: []byte(hash)}
}

func (v *Verifier) Enabled() bool { return v != nil && len(v.hash) > 0 }

func (v *Verifier) Verify(token string) bool {
	if !v.Enabled() || token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(v.hash, []byte(token)) == nil
}

// HashToken is used by tooling to produce PREVIEW_TOKEN_HASH values.
func HashToken(token string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
