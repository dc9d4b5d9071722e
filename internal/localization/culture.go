package localization

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Culture carries the language used for messages and the decimal separator
// used when reading numbers typed by a person.
type Culture struct {
	Tag              language.Tag
	DecimalSeparator rune
}

var (
	English   = Culture{Tag: language.English, DecimalSeparator: '.'}
	French    = Culture{Tag: language.French, DecimalSeparator: ','}
	Invariant = Culture{Tag: language.Und, DecimalSeparator: '.'}
)

var supported = []Culture{English, French}

var matcher = language.NewMatcher([]language.Tag{English.Tag, French.Tag})

// Parse resolves a culture name such as "en", "fr" or "fr-CA".
func Parse(name string) (Culture, error) {
	tag, err := language.Parse(name)
	if err != nil {
		return Culture{}, fmt.Errorf("parse culture %q: %w", name, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Culture{}, fmt.Errorf("unsupported culture %q", name)
	}
	return supported[idx], nil
}

// FromAcceptLanguage picks the best supported culture for an Accept-Language
// header value, or fallback when nothing matches.
func FromAcceptLanguage(header string, fallback Culture) Culture {
	if strings.TrimSpace(header) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supported[idx]
}

// NormalizeDecimal rewrites a number written with this culture's decimal
// separator so that it uses a dot. Input that already uses a dot, or that is
// ambiguous (several separators, or both a comma and a dot), is returned as is.
func (c Culture) NormalizeDecimal(s string) string {
	if c.DecimalSeparator == '.' || c.DecimalSeparator == 0 {
		return s
	}
	sep := string(c.DecimalSeparator)
	if strings.Count(s, sep) != 1 || strings.Contains(s, ".") {
		return s
	}
	return strings.Replace(s, sep, ".", 1)
}

func (c Culture) String() string {
	return c.Tag.String()
}
