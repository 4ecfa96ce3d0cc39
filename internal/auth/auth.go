package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only role issued today.
const RoleAdmin = "admin"

var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims extends the registered claims with the reviewer's role.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator checks admin credentials and issues review tokens.
type Authenticator struct {
	user         string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewAuthenticator creates an authenticator for a single admin account.
// passwordHash is a bcrypt hash.
func NewAuthenticator(user, passwordHash string, secret []byte, ttl time.Duration) *Authenticator {
	return &Authenticator{
		user:         user,
		passwordHash: []byte(passwordHash),
		secret:       secret,
		ttl:          ttl,
		now:          time.Now,
	}
}

// Login verifies the credentials and returns a signed token with its expiry.
func (a *Authenticator) Login(username, password string) (string, time.Time, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.user)) == 1
	// always run bcrypt so unknown users cost the same
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	expires := now.Add(a.ttl)
	token, err := Issue(a.secret, Claims{Username: username, Role: RoleAdmin}, now, expires)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// Verify parses a token issued by Login and checks the admin role.
func (a *Authenticator) Verify(token string) (*Claims, error) {
	claims, err := Parse(a.secret, token, a.now)
	if err != nil {
		return nil, err
	}
	if claims.Role != RoleAdmin {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Issue creates a HS256 token string.
func Issue(secret []byte, claims Claims, issuedAt, expiresAt time.Time) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		Subject:   claims.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Parse validates a token string. Only HS256 is accepted.
func Parse(secret []byte, token string, now func() time.Time) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
