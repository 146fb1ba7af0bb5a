package middleware

import (
	"net/http"

	"github.com/gorilla/securecookie"
)

const flashCookieName = "aura_flash"

// Flash kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// FlashMessage is a one-shot notice shown on the next rendered page.
type FlashMessage struct {
	Kind string `json:"k"`
	Text string `json:"t"`
}

// Flash signs one-shot messages into a short-lived cookie.
type Flash struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewFlash creates a Flash keyed by hashKey.
// PRE: len(hashKey) >= 32
func NewFlash(hashKey []byte, secure bool) *Flash {
	codec := securecookie.New(hashKey, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	codec.MaxAge(300)
	return &Flash{codec: codec, secure: secure}
}

// Set queues a message for the next page view.
func (f *Flash) Set(w http.ResponseWriter, kind, text string) {
	encoded, err := f.codec.Encode(flashCookieName, FlashMessage{Kind: kind, Text: text})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   300,
	})
}

// Pop returns the pending message, if any, and clears it. Tampered cookies are dropped.
func (f *Flash) Pop(w http.ResponseWriter, r *http.Request) (FlashMessage, bool) {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return FlashMessage{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
	var msg FlashMessage
	if err := f.codec.Decode(flashCookieName, cookie.Value, &msg); err != nil {
		return FlashMessage{}, false
	}
	return msg, true
}
