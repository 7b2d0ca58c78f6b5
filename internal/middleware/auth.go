package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/caffeinepub/total-amount-calculator-app/internal/apierror"
)

const (
	ClaimsKey = "claims"
	BranchKey = "branch"
)

// JWTClaims are the custom claims embedded in every access token. The branch
// is the partition key for all stored state, so it rides in the token and is
// resolved per request — never from process-wide mutable state.
type JWTClaims struct {
	Branch string `json:"branch"`
	jwt.RegisteredClaims
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentication required"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid || claims.Branch == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(BranchKey, claims.Branch)
		c.Next()
	}
}

// GetBranch returns the authenticated branch for the request.
func GetBranch(c *gin.Context) string {
	return c.GetString(BranchKey)
}
