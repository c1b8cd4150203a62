package telegram_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tgauth/pkg/telegram"
)

const botToken = "123456789:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw"

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func signedValues(t *testing.T, authDate time.Time) url.Values {
	t.Helper()

	values := url.Values{
		"id":         {"42"},
		"first_name": {"Pavel"},
		"last_name":  {"Durov"},
		"username":   {"durov"},
		"photo_url":  {"https://t.me/i/userpic/320/durov.jpg"},
		"auth_date":  {strconv.FormatInt(authDate.Unix(), 10)},
	}

	key := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, key[:])
	mac.Write([]byte(telegram.DataCheckString(values)))
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values
}

func newVerifier(t *testing.T) *telegram.Verifier {
	t.Helper()
	v, err := telegram.NewVerifier(botToken,
		telegram.WithMaxAge(24*time.Hour),
		telegram.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	return v
}

func TestDataCheckString(t *testing.T) {
	t.Parallel()

	values := url.Values{
		"username":  {"durov"},
		"id":        {"42"},
		"auth_date": {"1700000000"},
		"hash":      {"ignored"},
	}
	assert.Equal(t, "auth_date=1700000000\nid=42\nusername=durov", telegram.DataCheckString(values))
}

func TestVerifier_Verify(t *testing.T) {
	t.Parallel()

	v := newVerifier(t)

	t.Run("valid payload", func(t *testing.T) {
		data, err := v.Verify(signedValues(t, now.Add(-time.Minute)))
		require.NoError(t, err)
		assert.Equal(t, int64(42), data.ID)
		assert.Equal(t, "Pavel", data.FirstName)
		assert.Equal(t, "Durov", data.LastName)
		assert.Equal(t, "durov", data.Username)
		assert.Equal(t, "https://t.me/i/userpic/320/durov.jpg", data.PhotoURL)
		assert.Equal(t, now.Add(-time.Minute).Unix(), data.AuthDate)
	})

	t.Run("uppercase hash is accepted", func(t *testing.T) {
		values := signedValues(t, now)
		values.Set("hash", strings.ToUpper(values.Get("hash")))
		_, err := v.Verify(values)
		assert.NoError(t, err)
	})

	t.Run("missing hash", func(t *testing.T) {
		values := signedValues(t, now)
		values.Del("hash")
		_, err := v.Verify(values)
		assert.ErrorIs(t, err, telegram.ErrMissingHash)
	})

	t.Run("tampered field", func(t *testing.T) {
		values := signedValues(t, now)
		values.Set("id", "43")
		_, err := v.Verify(values)
		assert.ErrorIs(t, err, telegram.ErrInvalidHash)
	})

	t.Run("extra field breaks signature", func(t *testing.T) {
		values := signedValues(t, now)
		values.Set("admin", "true")
		_, err := v.Verify(values)
		assert.ErrorIs(t, err, telegram.ErrInvalidHash)
	})

	t.Run("signed with another bot", func(t *testing.T) {
		other, err := telegram.NewVerifier("987654321:other-token")
		require.NoError(t, err)

		values := signedValues(t, now)
		values.Set("hash", other.Sign(values))
		_, err = v.Verify(values)
		assert.ErrorIs(t, err, telegram.ErrInvalidHash)
	})

	t.Run("expired payload", func(t *testing.T) {
		_, err := v.Verify(signedValues(t, now.Add(-25*time.Hour)))
		assert.ErrorIs(t, err, telegram.ErrAuthExpired)
	})

	t.Run("future payload", func(t *testing.T) {
		_, err := v.Verify(signedValues(t, now.Add(time.Hour)))
		assert.ErrorIs(t, err, telegram.ErrInvalidPayload)
	})

	t.Run("max age disabled", func(t *testing.T) {
		lenient, err := telegram.NewVerifier(botToken,
			telegram.WithMaxAge(0),
			telegram.WithClock(func() time.Time { return now }),
		)
		require.NoError(t, err)

		_, err = lenient.Verify(signedValues(t, now.Add(-365*24*time.Hour)))
		assert.NoError(t, err)
	})

	t.Run("sign matches manual computation", func(t *testing.T) {
		values := signedValues(t, now)
		assert.Equal(t, values.Get("hash"), v.Sign(values))
	})
}

func TestNewVerifier_RequiresToken(t *testing.T) {
	t.Parallel()

	_, err := telegram.NewVerifier("")
	assert.ErrorIs(t, err, telegram.ErrNotConfigured)
}

func TestParseLoginData(t *testing.T) {
	t.Parallel()

	_, err := telegram.ParseLoginData(url.Values{"auth_date": {"1"}})
	assert.ErrorIs(t, err, telegram.ErrInvalidPayload)

	_, err = telegram.ParseLoginData(url.Values{"id": {"1"}, "auth_date": {"soon"}})
	assert.ErrorIs(t, err, telegram.ErrInvalidPayload)
}
