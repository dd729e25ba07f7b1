package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	CookieName = "user"
	cookieTTL  = 7 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid session token")

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies the session cookie (HS256).
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	// Secure marks the cookie HTTPS-only.
	Secure bool
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), ttl: cookieTTL, now: time.Now}
}

func (c *Codec) Encode(u User) (string, error) {
	now := c.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: u.Email,
		Role:  string(NormalizeRole(string(u.Role))),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return signed, nil
}

func (c *Codec) Decode(token string) (User, error) {
	var cl claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, &cl, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if cl.ExpiresAt == nil || !cl.ExpiresAt.After(c.now()) {
		return User{}, fmt.Errorf("%w: expired", ErrInvalidToken)
	}
	if cl.Subject == "" {
		return User{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return User{ID: cl.Subject, Email: cl.Email, Role: NormalizeRole(cl.Role)}, nil
}

// FromRequest reads the session cookie. No cookie yields (nil, nil).
func (c *Codec) FromRequest(r *http.Request) (*User, error) {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}
	u, err := c.Decode(ck.Value)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Codec) SetCookie(w http.ResponseWriter, u User) error {
	token, err := c.Encode(u)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *Codec) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
