package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"montago/models"
	"montago/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenValidity = 7 * 24 * time.Hour

// ErrInvalidToken is returned when a submission token does not match the
// order's outstanding verification token.
var ErrInvalidToken = errors.New("invalid or expired verification token")

func linkSecret() []byte {
	if s := os.Getenv("LINK_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("montago")
}

// IssueVerificationToken creates (or replaces) the single live
// verification token for an order and returns a signed submission link.
// Only the bcrypt hash of the random token is stored.
func IssueVerificationToken(db *gorm.DB, order *models.Order) (link string, expiresAt time.Time, err error) {
	raw := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to hash token: %w", err)
	}

	expiresAt = time.Now().Add(tokenValidity)
	token := models.VerificationToken{
		OrderID:   order.ID,
		TokenHash: string(hash),
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := repository.ReplaceVerificationToken(db, &token); err != nil {
		return "", time.Time{}, err
	}

	claims := jwt.MapClaims{
		"order": order.CanonicalNumber(),
		"token": raw,
		"exp":   expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(linkSecret())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign submission link: %w", err)
	}

	base := os.Getenv("PUBLIC_BASE_URL")
	if base == "" {
		base = "https://montago.example.com"
	}
	return fmt.Sprintf("%s/protocol/submit?token=%s", base, signed), expiresAt, nil
}

// ValidateSubmissionToken checks a signed submission link token against
// the order's outstanding verification token.
func ValidateSubmissionToken(db *gorm.DB, order *models.Order, signed string) error {
	parsed, err := jwt.Parse(signed, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return linkSecret(), nil
	})
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidToken
	}
	orderNumber, _ := claims["order"].(string)
	raw, _ := claims["token"].(string)
	if orderNumber != order.CanonicalNumber() || raw == "" {
		return ErrInvalidToken
	}

	stored, err := repository.GetVerificationToken(db, order.ID)
	if err != nil {
		return err
	}
	if stored == nil || time.Now().After(stored.ExpiresAt) {
		return ErrInvalidToken
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.TokenHash), []byte(raw)) != nil {
		return ErrInvalidToken
	}
	return nil
}
