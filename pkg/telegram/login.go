package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// LoginData is the user payload the login widget appends to the auth URL
type LoginData struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	AuthDate  int64  `json:"auth_date"`
}

// AuthTime returns auth_date as time
func (d LoginData) AuthTime() time.Time {
	return time.Unix(d.AuthDate, 0)
}

// Verifier checks login widget payloads signed by Telegram.
//
// The signature is HMAC-SHA256 over the data-check-string, keyed with
// SHA256(bot token). The data-check-string is every received field except
// hash, as key=value, sorted by key and joined with "\n".
type Verifier struct {
	secret [32]byte
	maxAge time.Duration
	now    func() time.Time
}

// VerifierOption is a functional option for Verifier
type VerifierOption func(*Verifier)

// WithMaxAge rejects payloads whose auth_date is older than d (0 disables the check)
func WithMaxAge(d time.Duration) VerifierOption {
	return func(v *Verifier) {
		v.maxAge = d
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) VerifierOption {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// NewVerifier creates a Verifier for the bot token
func NewVerifier(botToken string, opts ...VerifierOption) (*Verifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("%w: bot token is required", ErrNotConfigured)
	}

	v := &Verifier{
		secret: sha256.Sum256([]byte(botToken)),
		maxAge: 24 * time.Hour,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Verify checks the signature and freshness of the payload and decodes it
func (v *Verifier) Verify(values url.Values) (LoginData, error) {
	hash := values.Get("hash")
	if hash == "" {
		return LoginData{}, ErrMissingHash
	}

	expected := v.sign(DataCheckString(values))
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(hash))) {
		return LoginData{}, ErrInvalidHash
	}

	data, err := ParseLoginData(values)
	if err != nil {
		return LoginData{}, err
	}

	if v.maxAge > 0 {
		age := v.now().Sub(data.AuthTime())
		if age > v.maxAge {
			return LoginData{}, fmt.Errorf("%w: signed %v ago", ErrAuthExpired, age.Truncate(time.Second))
		}
		// Allow small clock skew, reject far-future timestamps
		if age < -time.Minute {
			return LoginData{}, fmt.Errorf("%w: auth_date is in the future", ErrInvalidPayload)
		}
	}

	return data, nil
}

// Sign computes the hash Telegram would attach to values. Used by tests and tooling.
func (v *Verifier) Sign(values url.Values) string {
	return v.sign(DataCheckString(values))
}

func (v *Verifier) sign(dataCheckString string) string {
	h := hmac.New(sha256.New, v.secret[:])
	h.Write([]byte(dataCheckString))
	return hex.EncodeToString(h.Sum(nil))
}

// DataCheckString builds the signed representation of the payload
func DataCheckString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}
	return strings.Join(lines, "\n")
}

// ParseLoginData decodes the payload without checking its signature
func ParseLoginData(values url.Values) (LoginData, error) {
	id, err := strconv.ParseInt(values.Get("id"), 10, 64)
	if err != nil || id == 0 {
		return LoginData{}, fmt.Errorf("%w: id", ErrInvalidPayload)
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return LoginData{}, fmt.Errorf("%w: auth_date", ErrInvalidPayload)
	}

	return LoginData{
		ID:        id,
		FirstName: values.Get("first_name"),
		LastName:  values.Get("last_name"),
		Username:  values.Get("username"),
		PhotoURL:  values.Get("photo_url"),
		AuthDate:  authDate,
	}, nil
}
