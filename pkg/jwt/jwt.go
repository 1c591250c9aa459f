// Package jwt verifica los tokens de acceso emitidos por el servicio de identidad.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Leeway tolerancia de reloj entre emisor y API.
const Leeway = 30 * time.Second

var (
	// ErrExpired el token superó su exp.
	ErrExpired = errors.New("jwt: token expirado")
	// ErrInvalid firma, formato, emisor o algoritmo incorrectos.
	ErrInvalid = errors.New("jwt: token inválido")
)

// Identity datos del usuario autenticado. CompanyID identifica al tenant (Cedente Prestatore).
type Identity struct {
	UserID    string
	CompanyID string
	Role      string // "admin" | "contabile" | "operatore"
}

type claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Verifier valida tokens HS256 con un secreto compartido.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier construye el verificador. Con issuer vacío no se comprueba el claim iss.
func NewVerifier(secret, issuer string) (*Verifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(Leeway),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &Verifier{secret: []byte(secret), parser: jwt.NewParser(opts...)}, nil
}

// Verify valida el token y devuelve la identidad. El user_id ausente se toma de sub.
func (v *Verifier) Verify(tokenString string) (Identity, error) {
	var c claims
	_, err := v.parser.ParseWithClaims(tokenString, &c, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, ErrExpired
	case err != nil:
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	userID := c.UserID
	if userID == "" {
		userID = c.Subject
	}
	return Identity{UserID: userID, CompanyID: c.CompanyID, Role: c.Role}, nil
}

// Sign emite un token HS256 con la identidad dada. Lo usan los tests y los entornos locales;
// en producción los tokens llegan del servicio de identidad.
func Sign(secret, issuer string, id Identity, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:    id.UserID,
		CompanyID: id.CompanyID,
		Role:      id.Role,
	})
	return token.SignedString([]byte(secret))
}
