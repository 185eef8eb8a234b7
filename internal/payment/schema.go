package payment

import (
	"fmt"
	"html"
	"strings"

	"github.com/kennygrant/sanitize"
)

type FieldType string

const (
	FieldCheckbox FieldType = "checkbox"
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
)

// FieldSpec describes one admin setting. Rendering is left to the admin UI.
type FieldSpec struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label,omitempty"`
	Description string    `json:"description,omitempty"`
	Default     string    `json:"default"`
	DescTip     bool      `json:"desc_tip"`
}

func offlineSchema(methodName string, defaults Config) []FieldSpec {
	enabled := no
	if defaults.Enabled {
		enabled = yes
	}

	return []FieldSpec{
		{
			Key:     KeyEnabled,
			Title:   "Enable/Disable",
			Type:    FieldCheckbox,
			Label:   fmt.Sprintf("Enable %s Payment", methodName),
			Default: enabled,
		},
		{
			Key:         KeyTitle,
			Title:       "Title",
			Type:        FieldText,
			Description: "This controls the title which the user sees during checkout.",
			Default:     defaults.Title,
			DescTip:     true,
		},
		{
			Key:         KeyDescription,
			Title:       "Description",
			Type:        FieldTextarea,
			Description: "Payment method description that the customer will see on your checkout.",
			Default:     defaults.Description,
			DescTip:     true,
		},
		{
			Key:         KeyInstructions,
			Title:       "Instructions",
			Type:        FieldTextarea,
			Description: "Instructions that will be added to the thank you page and emails.",
			Default:     defaults.Instructions,
			DescTip:     true,
		},
	}
}

// NormalizeSettings validates input against schema and merges it over current.
// Keys missing from input keep their current value. Markup is stripped from
// text fields; instructions are escaped again when rendered.
func NormalizeSettings(schema []FieldSpec, current, input map[string]string) (map[string]string, error) {
	fields := make(map[string]FieldSpec, len(schema))
	for _, f := range schema {
		fields[f.Key] = f
	}
	for k := range input {
		if _, ok := fields[k]; !ok {
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidSetting, k)
		}
	}

	out := make(map[string]string, len(schema))
	for _, f := range schema {
		v, ok := input[f.Key]
		if !ok {
			if cur, has := current[f.Key]; has {
				out[f.Key] = cur
			} else {
				out[f.Key] = f.Default
			}
			continue
		}

		switch f.Type {
		case FieldCheckbox:
			out[f.Key] = normalizeCheckbox(v)
		case FieldText:
			out[f.Key] = strings.TrimSpace(stripTags(v))
		case FieldTextarea:
			out[f.Key] = strings.TrimSpace(stripTags(strings.ReplaceAll(v, "\r\n", "\n")))
		default:
			return nil, fmt.Errorf("%w: unsupported field type %q", ErrInvalidSetting, f.Type)
		}
	}

	return out, nil
}

func normalizeCheckbox(v string) string {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1", "on":
		return yes
	default:
		return no
	}
}

// stripTags removes markup and returns plain text. sanitize.HTML escapes its
// result, which would be escaped a second time on render. Lines are stripped
// one at a time since sanitize.HTML drops newlines once it sees a tag.
func stripTags(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = html.UnescapeString(sanitize.HTML(escapeStrayBrackets(line)))
	}
	return strings.Join(lines, "\n")
}

// escapeStrayBrackets entity-encodes a '<' that does not open a tag and a '>'
// that does not close one, so sanitize.HTML keeps them as text.
func escapeStrayBrackets(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return s
	}

	var b strings.Builder
	inTag := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '<' && !inTag && i+1 < len(s) && isTagStart(s[i+1]):
			inTag = true
			b.WriteByte(c)
		case c == '<' && !inTag:
			b.WriteString("&lt;")
		case c == '>' && inTag:
			inTag = false
			b.WriteByte(c)
		case c == '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isTagStart(c byte) bool {
	return c == '/' || c == '!' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
