package jwtPkg

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"ChatbotGolang/internal/entity"
)

const AccessTokenSecretEnv = "JWT_ACCESS_TOKEN_SECRET"

// Sign issues a session token. The only identity a chat client carries
// is its session id; the token pins turns to the session they belong
// to.
func Sign(data map[string]interface{}, expiresIn time.Duration) (string, int64, error) {
	expiredAt := time.Now().Add(expiresIn).Unix()

	secret := os.Getenv(AccessTokenSecretEnv)
	if secret == "" {
		return "", 0, fmt.Errorf("%s not set", AccessTokenSecretEnv)
	}

	claims := jwt.MapClaims{}
	claims["exp"] = expiredAt
	claims["authorization"] = true
	for k, v := range data {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		logrus.WithError(err).Error("Failed to sign session token")
		return "", 0, err
	}

	return signed, expiredAt, nil
}

func VerifyTokenHeader(c *fiber.Ctx, secretEnvKey string) (*jwt.Token, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, errors.New("empty Authorization header")
	}

	parts := strings.Split(header, "Bearer ")
	if len(parts) != 2 {
		return nil, errors.New("invalid Authorization format")
	}

	accessToken := strings.TrimSpace(parts[1])
	if accessToken == "" {
		return nil, errors.New("empty token")
	}

	secret := os.Getenv(secretEnvKey)
	if secret == "" {
		return nil, errors.New("JWT secret not configured")
	}

	token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		logrus.WithError(err).Warn("Failed to parse session token")
		return nil, err
	}

	return token, nil
}

// GetSessionData reads the session identity the token middleware stored
// on the request.
func GetSessionData(c *fiber.Ctx) (entity.SessionTokenData, error) {
	data := c.Locals("session")

	session, ok := data.(entity.SessionTokenData)
	if !ok {
		return entity.SessionTokenData{}, fiber.ErrUnauthorized
	}

	return session, nil
}
