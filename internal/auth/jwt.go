package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken возвращается для просроченных, поддельных и битых токенов
var ErrInvalidToken = errors.New("недействительный токен")

// Claims - утверждения токена оператора симуляции
type Claims struct {
	Operator string `json:"operator"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Issuer выпускает и проверяет токены HS256 операторов симуляции
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer создаёт Issuer из base64-секрета не короче 32 байт.
// Пустой секрет заменяется случайным: токены живут до перезапуска процесса.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if secret == "" {
		var err error
		if secret, err = GenerateSecureSecret(); err != nil {
			return nil, err
		}
	}
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, fmt.Errorf("секрет должен быть в base64: %w", err)
	}
	if len(decoded) < 32 {
		return nil, errors.New("secret key must be at least 32 bytes")
	}
	return &Issuer{secret: decoded, ttl: ttl, now: time.Now}, nil
}

// Issue выпускает токен оператора
func (i *Issuer) Issue(operator string, admin bool) (string, error) {
	now := i.now()
	claims := &Claims{
		Operator: operator,
		IsAdmin:  admin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "fps-sim",
			Subject:   operator,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Validate проверяет подпись и срок действия токена
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithIssuer("fps-sim"))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GenerateSecureSecret generates a new secure secret key
func GenerateSecureSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
