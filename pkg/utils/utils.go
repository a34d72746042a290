package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var numericID = regexp.MustCompile(`^[0-9]+$`)

// GenerateToken signs an HS256 session token for the user.
func GenerateToken(userID int64, signKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	s, err := t.SignedString(signKey)
	if err != nil {
		return "", err
	}
	return s, nil
}

// ParseID accepts only plain decimal digits.
func ParseID(s string) (int64, bool) {
	if !numericID.MatchString(s) {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

var textEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`"`, "&quot;",
	`'`, "&#039;",
	`<`, "&lt;",
	`>`, "&gt;",
)

// EscapeText escapes the five HTML special characters, quotes included.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}
