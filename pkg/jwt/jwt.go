package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken token mal formado, vencido o con firma incorrecta.
var ErrInvalidToken = errors.New("jwt: token inválido")

// leeway tolerancia de reloj entre emisor y validador.
const leeway = 30 * time.Second

// Claims claims estándar más empresa y rol (el middleware RBAC no consulta la DB).
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"` // admin | contador | vendedor
}

// Generate firma con HS256 un token para el usuario.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", errors.New("jwt: secret vacío")
	}
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	}).SignedString([]byte(secret))
}

// Parse valida el token y devuelve userID, companyID y role.
func Parse(secret, tokenString string) (userID, companyID, role string, err error) {
	c, err := ParseClaims(secret, tokenString)
	if err != nil {
		return "", "", "", err
	}
	return c.UserID, c.CompanyID, c.Role, nil
}

// ParseClaims valida firma y vencimiento y devuelve los claims completos.
// Todos los errores envuelven ErrInvalidToken.
func ParseClaims(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("jwt: secret vacío")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.CompanyID == "" {
		return nil, fmt.Errorf("%w: faltan user_id o company_id", ErrInvalidToken)
	}
	return claims, nil
}
