package payment

import (
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"cashapp-gateway/internal/order"
)

// InstructionVars are substituted for {{key}} placeholders in instructions.
type InstructionVars map[string]string

// InjectVariables substitutes every placeholder in a single pass, so values
// that contain placeholders are never expanded again.
func InjectVariables(text string, vars InstructionVars) string {
	if len(vars) == 0 {
		return text
	}

	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		pairs = append(pairs, "{{"+key+"}}", vars[key])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// OrderVars exposes order_id, order_total and currency to instructions.
func OrderVars(o *order.Order) InstructionVars {
	if o == nil {
		return nil
	}
	return InstructionVars{
		"order_id":    strconv.FormatUint(uint64(o.ID), 10),
		"order_total": strconv.FormatFloat(o.Total, 'f', 2, 64),
		"currency":    o.Currency,
	}
}

var (
	typography = strings.NewReplacer(
		"---", "—",
		" -- ", " – ",
		"--", "–",
		"...", "…",
		"(tm)", "™",
		"(c)", "©",
		"(r)", "®",
	)
	blankLines = regexp.MustCompile(`\n[ \t]*\n\s*`)
)

// Texturize applies typographic replacements: dashes, ellipses, symbols and
// curly quotes.
func Texturize(s string) string {
	s = typography.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	prev := rune(0)
	for _, r := range s {
		opening := prev == 0 || unicode.IsSpace(prev) || strings.ContainsRune("([{—–", prev)
		switch r {
		case '"':
			if opening {
				b.WriteRune('“')
			} else {
				b.WriteRune('”')
			}
		case '\'':
			if opening {
				b.WriteRune('‘')
			} else {
				b.WriteRune('’')
			}
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// Autop wraps blank-line separated blocks in <p> and turns single newlines
// into <br />. Input must already be escaped.
func Autop(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, p := range blankLines.Split(s, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(p, "\n", "<br />\n"))
		b.WriteString("</p>\n")
	}
	return b.String()
}

// FormatHTML renders plain instruction text as escaped paragraphs.
func FormatHTML(text string) string {
	return Autop(html.EscapeString(Texturize(text)))
}

// FormatPlain renders instruction text for plain-text email bodies.
func FormatPlain(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	return blankLines.ReplaceAllString(Texturize(text), "\n\n")
}
