package handlers

import (
	"net/http"
	"net/url"
)

const (
	flashCookieName     = "flash"
	flashTypeCookieName = "flash_type"
	flashTypeError      = "error"
	flashTypeSuccess    = "success"
)

// flash is a one-shot message carried across a redirect.
type flash struct {
	Message string
	Type    string
}

func (f flash) apply(data map[string]interface{}) {
	if f.Message == "" {
		return
	}
	data["Flash"] = f.Message
	data["FlashType"] = f.Type
}

// flashes reads and clears the pending flash for handlers serving one secure mode.
type flashes struct {
	secure bool
}

func (fl flashes) success(w http.ResponseWriter, message string) {
	fl.set(w, flash{Message: message, Type: flashTypeSuccess})
}

func (fl flashes) error(w http.ResponseWriter, message string) {
	fl.set(w, flash{Message: message, Type: flashTypeError})
}

func (fl flashes) set(w http.ResponseWriter, f flash) {
	if f.Message == "" {
		return
	}
	if f.Type != flashTypeSuccess {
		f.Type = flashTypeError
	}
	http.SetCookie(w, fl.cookie(flashCookieName, url.QueryEscape(f.Message)))
	http.SetCookie(w, fl.cookie(flashTypeCookieName, f.Type))
}

func (fl flashes) consume(w http.ResponseWriter, r *http.Request) flash {
	msgCookie, err := r.Cookie(flashCookieName)
	if err != nil || msgCookie.Value == "" {
		return flash{}
	}

	f := flash{Type: flashTypeError}
	f.Message, err = url.QueryUnescape(msgCookie.Value)
	if err != nil {
		f.Message = msgCookie.Value
	}
	if typeCookie, err := r.Cookie(flashTypeCookieName); err == nil && typeCookie.Value == flashTypeSuccess {
		f.Type = flashTypeSuccess
	}

	for _, name := range []string{flashCookieName, flashTypeCookieName} {
		c := fl.cookie(name, "")
		c.MaxAge = -1
		http.SetCookie(w, c)
	}
	return f
}

func (fl flashes) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   fl.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
