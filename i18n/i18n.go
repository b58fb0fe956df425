package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

//go:embed translations/*.json
var translationsFS embed.FS

var translations = make(map[string]map[string]string)

const DefaultLang = "pt"

func init() {
	for _, lang := range []string{"pt", "en"} {
		data, err := translationsFS.ReadFile(fmt.Sprintf("translations/%s.json", lang))
		if err != nil {
			panic(fmt.Sprintf("i18n: missing embedded translations for %s: %v", lang, err))
		}
		var t map[string]string
		if err := json.Unmarshal(data, &t); err != nil {
			panic(fmt.Sprintf("i18n: invalid translations for %s: %v", lang, err))
		}
		translations[lang] = t
	}
}

// Languages lists the embedded translation languages.
func Languages() []string {
	langs := make([]string, 0, len(translations))
	for lang := range translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func T(lang, key string) string {
	if t, ok := translations[lang]; ok {
		if val, ok := t[key]; ok {
			return val
		}
	}
	// Fallback to Portuguese
	if lang != DefaultLang {
		return T(DefaultLang, key)
	}
	return key
}

func DetectLanguage(r *http.Request) string {
	// Example: pt-BR, pt;q=0.9, en;q=0.8, *;q=0.5
	accept := r.Header.Get("Accept-Language")
	if accept != "" {
		parts := strings.Split(accept, ",")
		for _, part := range parts {
			lang := strings.TrimSpace(strings.Split(part, ";")[0])
			if len(lang) >= 2 {
				lang = lang[:2]
				if _, ok := translations[lang]; ok {
					return lang
				}
			}
		}
	}

	return DefaultLang
}
