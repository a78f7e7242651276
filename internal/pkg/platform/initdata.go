package platform

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInitDataInvalid = errors.New("mini-app init data signature is invalid")
	ErrInitDataExpired = errors.New("mini-app init data is too old")
)

// initDataMaxAge bounds replay of captured init data.
const initDataMaxAge = 24 * time.Hour

type initDataUser struct {
	ID int64 `json:"id"`
}

// VerifyInitData validates the signed init data a mini-app receives from
// the chat platform and returns the verified external user id. The
// signature scheme is the platform's web-app one: HMAC-SHA256 of the
// sorted key=value lines, keyed with HMAC-SHA256("WebAppData", botToken).
func VerifyInitData(raw string, botToken string, now time.Time) (string, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return "", ErrInitDataInvalid
	}

	providedHash := values.Get("hash")
	if providedHash == "" {
		return "", ErrInitDataInvalid
	}

	pairs := make([]string, 0, len(values))
	for key := range values {
		if key == "hash" {
			continue
		}
		pairs = append(pairs, key+"="+values.Get(key))
	}
	sort.Strings(pairs)
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))

	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(providedHash)) {
		return "", ErrInitDataInvalid
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return "", ErrInitDataInvalid
	}
	if now.Sub(time.Unix(authDate, 0)) > initDataMaxAge {
		return "", ErrInitDataExpired
	}

	var user initDataUser
	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil || user.ID == 0 {
		return "", ErrInitDataInvalid
	}

	return strconv.FormatInt(user.ID, 10), nil
}
