package util

import (
	"sensen_backend/internal/config"
	"sensen_backend/internal/model"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer     = "sensen-backend"
	defaultTokenTTL = 24 * time.Hour
	claimsKey       = "user"
)

// Claims identify the learner or administrator behind a request.
type Claims struct {
	UserID   uint           `json:"user_id"`
	Role     model.UserRole `json:"role"`
	Username string         `json:"username"`
	jwt.RegisteredClaims
}

// NewClaims issues claims for user valid for ttl from now. A non-positive
// ttl falls back to one day.
func NewClaims(user *model.User, ttl time.Duration, now time.Time) *Claims {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Claims{
		UserID:   user.ID,
		Role:     user.Role,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

func (c *Claims) IsAdmin() bool {
	return c.Role == model.Admin
}

// HasRole reports whether the holder has one of roles. Admins hold every role.
func (c *Claims) HasRole(roles ...model.UserRole) bool {
	if c.IsAdmin() {
		return true
	}
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

func GenerateJWT(user *model.User, cfg config.JWTConfig) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, NewClaims(user, cfg.ExpireTime, time.Now()))
	return token.SignedString([]byte(cfg.Secret))
}

// ParseJWT accepts only HS256 tokens from this service that carry an expiry.
func ParseJWT(tokenString string, cfg config.JWTConfig) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrUnauthorized
}

func SetClaims(c *gin.Context, claims *Claims) {
	c.Set(claimsKey, claims)
}

func GetUserFromContext(c *gin.Context) *Claims {
	claims, _ := c.Get(claimsKey)
	user, _ := claims.(*Claims)
	return user
}
