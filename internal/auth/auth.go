package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
)

const identityKey = "identity"

// Identity is the authenticated caller
type Identity struct {
	UserID string
	Email  string
}

type claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

// Verifier validates HS256 access tokens signed with a shared secret
type Verifier struct {
	secret []byte
}

// NewVerifier creates a verifier for the given signing secret
func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret cannot be empty")
	}
	return &Verifier{secret: []byte(secret)}, nil
}

// Verify parses a token and returns the identity it carries
func (v *Verifier) Verify(token string) (*Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if c.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &Identity{UserID: c.Subject, Email: c.Email}, nil
}

// Middleware rejects requests without a valid bearer token
func (v *Verifier) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, "Missing bearer token")
		}

		id, err := v.Verify(token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(identityKey, id)
		return c.Next()
	}
}

// FromContext returns the identity stored by Middleware
func FromContext(c *fiber.Ctx) (*Identity, bool) {
	id, ok := c.Locals(identityKey).(*Identity)
	return id, ok && id != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
		"code":  "ERR_UNAUTHORIZED",
	})
}
