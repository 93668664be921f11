package utils

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims identifies the caller. Exactly one of ClinicianID, PatientID or
// SystemID is normally set; Scope is a space separated permission list.
type JWTClaims struct {
	ClinicianID string `json:"clinician_id,omitempty"`
	PatientID   string `json:"patient_id,omitempty"`
	SystemID    string `json:"system_id,omitempty"`
	Scope       string `json:"scope"`
	jwt.RegisteredClaims
}

// Scopes splits the scope claim.
func (c *JWTClaims) Scopes() []string {
	return strings.Fields(c.Scope)
}

func (c *JWTClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes() {
		if s == scope {
			return true
		}
	}
	return false
}

// User returns the user type and id used for survey ownership.
func (c *JWTClaims) User() (userType, userID string) {
	switch {
	case c.ClinicianID != "":
		return "clinician", c.ClinicianID
	case c.PatientID != "":
		return "patient", c.PatientID
	default:
		return "", ""
	}
}

// GenerateToken signs claims with JWT_SECRET, valid for ttl.
func GenerateToken(claims JWTClaims, ttl time.Duration) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtKey) == 0 {
		return "", errors.New("JWT_SECRET is not set")
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// VerifyToken validates signature and expiry and returns the claims.
func VerifyToken(tokenStr string) (*JWTClaims, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))
	if len(jwtKey) == 0 {
		return nil, errors.New("JWT_SECRET is not set")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
