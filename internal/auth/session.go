package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// SessionCookie is the name of the seller session cookie.
const SessionCookie = "seller_session"

// SessionMaxAge is how long the session cookie stays valid. The token itself
// carries no expiry; the cookie max-age is the only lifetime bound.
const SessionMaxAge = 8 * time.Hour

// sessionPayload is the signed token body. IssuedAt is Unix milliseconds.
type sessionPayload struct {
	SellerID string `json:"sellerId"`
	IssuedAt int64  `json:"issuedAt"`
}

// SessionCodec issues and verifies stateless seller session tokens of the
// form <base64url(payload)>.<base64url(HMAC-SHA256(payload))>. Possession of
// a validly signed token is proof of identity; nothing is stored server-side.
type SessionCodec struct {
	secret []byte
}

// NewSessionCodec creates a codec signing with the given secret.
func NewSessionCodec(secret string) *SessionCodec {
	return &SessionCodec{secret: []byte(secret)}
}

func (c *SessionCodec) sign(value string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Issue builds a signed session token for the given seller.
func (c *SessionCodec) Issue(sellerID string) string {
	payload, _ := json.Marshal(sessionPayload{
		SellerID: sellerID,
		IssuedAt: time.Now().UnixMilli(),
	})
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + c.sign(encoded)
}

// Verify checks a token's signature and returns the seller ID it encodes.
// Every failure path returns ("", false): missing segments, a signature of
// the wrong length, a signature mismatch, an undecodable payload, or a
// payload whose sellerId is not a string. The signature comparison is
// constant-time; the length check short-circuits first so differing-length
// forgeries reveal nothing about where the mismatch is.
func (c *SessionCodec) Verify(token string) (string, bool) {
	encoded, signature, ok := strings.Cut(token, ".")
	if !ok || encoded == "" || signature == "" {
		return "", false
	}

	expected := c.sign(encoded)
	if len(signature) != len(expected) {
		return "", false
	}
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}

	var payload sessionPayload
	if err := json.Unmarshal(decoded, &payload); err != nil {
		return "", false
	}
	if payload.SellerID == "" {
		return "", false
	}

	return payload.SellerID, true
}
