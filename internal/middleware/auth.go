package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextRestaurantID is the gin context key holding the authenticated
// restaurant id.
const ContextRestaurantID = "rid"

type Claims struct {
	RestaurantID int64  `json:"rid"`
	Email        string `json:"email"`
	jwt.RegisteredClaims
}

// RestaurantAuth requires a valid bearer token and stores the restaurant id on
// the context.
func RestaurantAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ParseBearer(secret, c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": err.Error()})
			return
		}
		c.Set(ContextRestaurantID, claims.RestaurantID)
		c.Next()
	}
}

var (
	errNoToken      = jwtError("No token provided")
	errInvalidToken = jwtError("Invalid token")
)

type jwtError string

func (e jwtError) Error() string { return string(e) }

// ParseBearer validates an "Authorization: Bearer <jwt>" header value.
func ParseBearer(secret, header string) (*Claims, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errNoToken
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	claims := token.Claims.(*Claims)
	if claims.RestaurantID <= 0 {
		return nil, errInvalidToken
	}
	return claims, nil
}

// RestaurantID returns the id set by RestaurantAuth.
func RestaurantID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextRestaurantID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func Issue(secret string, restaurantID int64, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		RestaurantID: restaurantID,
		Email:        email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
