package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	assert.Equal(t, "Usuário ou senha incorretos", T("pt", "LoginFailed"))
	assert.Equal(t, "Incorrect username or password", T("en", "LoginFailed"))

	// Unknown language falls back to Portuguese, unknown key to the key.
	assert.Equal(t, "Usuário ou senha incorretos", T("de", "LoginFailed"))
	assert.Equal(t, "NoSuchKey", T("pt", "NoSuchKey"))
}

func TestLanguages(t *testing.T) {
	assert.Equal(t, []string{"en", "pt"}, Languages())
}

func TestDetectLanguage(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	assert.Equal(t, "pt", DetectLanguage(r))

	r.Header.Set("Accept-Language", "en-US,en;q=0.9")
	assert.Equal(t, "en", DetectLanguage(r))

	r.Header.Set("Accept-Language", "pt-BR, pt;q=0.9, en;q=0.8")
	assert.Equal(t, "pt", DetectLanguage(r))

	r.Header.Set("Accept-Language", "de-DE, fr;q=0.9")
	assert.Equal(t, "pt", DetectLanguage(r))
}
