// Package i18n holds user-facing message catalogs for domain error codes.
package i18n

import (
	"strings"
	"text/template"
)

// Code mirrors the machine-readable error code as a plain string.
// Codes are duplicated here to avoid an import cycle with the errors package.
type Code = string

// Catalog formats error codes into user-facing messages for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// Locale returns the catalog locale tag.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message for a code, substituting metadata values.
// Unknown codes fall back to a generic message so callers never see raw codes.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	msg, ok := c.messages[code]
	if !ok {
		return "An unexpected error occurred"
	}
	if len(metadata) == 0 || !strings.Contains(msg, "{{") {
		return msg
	}
	tmpl, err := template.New(code).Parse(msg)
	if err != nil {
		return msg
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, metadata); err != nil {
		return msg
	}
	return sb.String()
}

// GetCatalog returns the catalog for a locale, defaulting to en-US.
func GetCatalog(locale string) *Catalog {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", "en", "en-us":
		return enUSCatalog
	default:
		return enUSCatalog
	}
}
