package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrHandleInvalid = errors.New("session handle invalid")

// HandleSigner firma el identificador de sesion que viaja en la cookie.
// El handle no expira: la sesion solo termina con signOut.
type HandleSigner struct {
	secret []byte
	issuer string
}

type handleClaims struct {
	jwt.RegisteredClaims
}

func NewHandleSigner(secret string) *HandleSigner {
	return &HandleSigner{
		secret: []byte(secret),
		issuer: "clearscrub-admin",
	}
}

func (h *HandleSigner) Issue(sid string) (string, error) {
	if len(h.secret) == 0 || strings.TrimSpace(sid) == "" {
		return "", ErrHandleInvalid
	}
	claims := handleClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       sid,
			Issuer:   h.issuer,
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}

// Parse devuelve el sid de un handle firmado por este proceso.
func (h *HandleSigner) Parse(token string) (string, error) {
	if len(h.secret) == 0 || strings.TrimSpace(token) == "" {
		return "", ErrHandleInvalid
	}
	var claims handleClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, &claims, func(_ *jwt.Token) (any, error) {
		return h.secret, nil
	})
	if err != nil {
		return "", ErrHandleInvalid
	}
	if claims.Issuer != h.issuer || strings.TrimSpace(claims.ID) == "" {
		return "", ErrHandleInvalid
	}
	return claims.ID, nil
}
