package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

type authClaims struct {
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	ExpiresAt int64   `json:"exp"`
}

// authMiddleware resolves an optional bearer token into a user account. No
// token means the request operates on the shared unscoped holding set, which
// is how the single-user deployment runs.
func (m ApiHandler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.Next()
		return
	}

	tokenStr := strings.TrimPrefix(header, "Bearer ")
	claims, err := parseAuthJwt(tokenStr, m.JwtDecodeToken)
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("failed to authenticate: %w", err), c, 401)
		return
	}

	user, err := m.UserAccountRepository.GetOrCreate(claims.Email, claims.FirstName, claims.LastName)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.Set("userAccountID", user.UserAccountID)
	c.Next()
}

// userAccountID returns the authenticated user's id, or nil for anonymous
// requests.
func userAccountID(c *gin.Context) *uuid.UUID {
	value, ok := c.Get("userAccountID")
	if !ok {
		return nil
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

func parseAuthJwt(jwtStr string, decodeToken string) (*authClaims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(decodeToken), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse claims")
	}

	out := authClaims{}
	if email, ok := mapClaims["email"].(string); ok {
		out.Email = email
	}
	if out.Email == "" {
		return nil, fmt.Errorf("token has no email claim")
	}
	if firstName, ok := mapClaims["firstName"].(string); ok {
		out.FirstName = &firstName
	}
	if lastName, ok := mapClaims["lastName"].(string); ok {
		out.LastName = &lastName
	}
	if exp, ok := mapClaims["exp"].(float64); ok {
		out.ExpiresAt = int64(exp)
	}

	if out.ExpiresAt != 0 && time.Now().UTC().Unix() > out.ExpiresAt {
		return nil, fmt.Errorf("jwt is expired")
	}

	return &out, nil
}
