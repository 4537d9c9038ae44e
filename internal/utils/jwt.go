package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/rand"  // secure random number generation
    "encoding/hex" // hex encoding for token identifiers
    "time"         // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string and is sent in the Authorization
// header when calling protected endpoints.  JTI is the token's unique
// identifier; logout blacklists the JTI in Redis for the remaining token
// lifetime so a revoked token stops working before it expires.
type AccessToken struct {
    Token string    // the serialized JWT string
    JTI   string    // unique token identifier used for revocation
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a customer.  It takes
// the signing secret, the customer ID and a TTL in minutes, and returns
// an AccessToken containing the signed token, its JTI and its expiration
// time.  The JWT carries standard claims: subject (sub), token id (jti),
// expiration (exp) and issued at (iat).
func NewAccessToken(secret string, customerID uint64, ttlMin int) (AccessToken, error) {
    exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
    jti, err := randomHex(16)
    if err != nil {
        return AccessToken{}, err
    }
    claims := jwt.MapClaims{
        "sub": customerID,
        "jti": jti,
        "exp": exp.Unix(),
        "iat": time.Now().UTC().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, JTI: jti, Exp: exp}, nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
