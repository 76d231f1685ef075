package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"pollhub/contexts/polling/voting-service/domain/valueobjects"

	"github.com/golang-jwt/jwt/v5"
)

var errInvalidToken = errors.New("invalid bearer token")

// IdentityResolver turns an optional HS256 bearer token into a UserIdentity.
// The user id is read from the "user_id" claim, falling back to "sub".
type IdentityResolver struct {
	Secret []byte
}

func NewIdentityResolver(secret string) IdentityResolver {
	return IdentityResolver{Secret: []byte(secret)}
}

// Resolve returns the anonymous identity when no Authorization header is sent.
// A header that is present but cannot be verified is an error.
func (r IdentityResolver) Resolve(req *http.Request) (valueobjects.UserIdentity, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return valueobjects.Anonymous(), nil
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return valueobjects.UserIdentity{}, errInvalidToken
	}
	if len(r.Secret) == 0 {
		return valueobjects.UserIdentity{}, fmt.Errorf("%w: authentication is not configured", errInvalidToken)
	}

	token, err := jwt.Parse(strings.TrimSpace(parts[1]), func(token *jwt.Token) (any, error) {
		return r.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return valueobjects.UserIdentity{}, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return valueobjects.UserIdentity{}, errInvalidToken
	}
	userID := claimString(claims["user_id"])
	if userID == "" {
		userID = claimString(claims["sub"])
	}
	identity, err := valueobjects.NewAuthenticatedIdentity(userID)
	if err != nil {
		return valueobjects.UserIdentity{}, fmt.Errorf("%w: %v", errInvalidToken, err)
	}
	return identity, nil
}

func claimString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return ""
	}
}
