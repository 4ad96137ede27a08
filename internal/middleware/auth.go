package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"adminlte-api/internal/domain"
	"adminlte-api/internal/response"
)

// UserIDKey is the gin context key holding the authenticated user id
const UserIDKey = "user_id"

var errInvalidSubject = errors.New("token subject is not a user id")

// ActorResolver extracts the acting user id from HMAC-signed bearer tokens
type ActorResolver struct {
	secret   []byte
	required bool
}

// NewActorResolver creates a resolver. With required set, mutating requests
// without a token are rejected; reads stay anonymous.
func NewActorResolver(secret string, required bool) *ActorResolver {
	return &ActorResolver{secret: []byte(secret), required: required}
}

// Middleware attaches the actor to the request context. A present but invalid
// token is always rejected.
func (a *ActorResolver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if a.required && isMutation(c.Request.Method) {
				response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "No authorization header")
				return
			}
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}

		userID, err := a.Resolve(parts[1])
		if err != nil {
			response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid token")
			return
		}

		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(domain.WithActor(c.Request.Context(), userID))
		c.Next()
	}
}

// Resolve validates tokenString and returns its integer subject
func (a *ActorResolver) Resolve(tokenString string) (int, error) {
	if len(a.secret) == 0 {
		return 0, errors.New("no signing secret configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	if err != nil {
		return 0, err
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(sub)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidSubject, sub)
	}
	return id, nil
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
