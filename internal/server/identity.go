package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/clubkosh/clubkosh/internal/gate"
	"github.com/golang-jwt/jwt/v5"
)

const contextPrincipalKey = "principal"

// IdentityRequired verifies the bearer token issued by the identity
// provider. Only two claims are consumed: the subject id and the verified
// email. Everything else about the account lives outside this app.
func (s *Server) IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		principal, err := s.verifyIdentityToken(token)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set(contextPrincipalKey, principal)
		c.Next()
	}
}

func (s *Server) verifyIdentityToken(token string) (gate.Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.IdentityIssuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.IdentityIssuer))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.IdentityJWTSecret), nil
	}, opts...)
	if err != nil {
		return gate.Principal{}, err
	}

	sub, _ := claims.GetSubject()
	email, _ := claims["email"].(string)

	principal := gate.Principal{
		ExternalID: strings.TrimSpace(sub),
		Email:      strings.ToLower(strings.TrimSpace(email)),
	}
	if principal.ExternalID == "" || principal.Email == "" {
		return gate.Principal{}, ErrUnauthorized
	}
	return principal, nil
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
