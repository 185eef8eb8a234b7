package payment

import (
	"testing"

	"cashapp-gateway/internal/order"

	"github.com/stretchr/testify/assert"
)

func TestInjectVariables(t *testing.T) {
	t.Run("ReplacesPlaceholders", func(t *testing.T) {
		text := "Send {{order_total}} {{currency}} to $shop with note #{{order_id}}."
		vars := OrderVars(&order.Order{ID: 12, Total: 25, Currency: "USD"})

		assert.Equal(t, "Send 25.00 USD to $shop with note #12.", InjectVariables(text, vars))
	})

	t.Run("HandlesMissingVariables", func(t *testing.T) {
		assert.Equal(t, "Pay {{amount}}", InjectVariables("Pay {{amount}}", InstructionVars{}))
		assert.Equal(t, "Pay {{order_id}}", InjectVariables("Pay {{order_id}}", OrderVars(nil)))
	})

	t.Run("SubstitutedValuesAreNotExpanded", func(t *testing.T) {
		vars := InstructionVars{"currency": "{{order_id}}", "order_id": "7"}
		for i := 0; i < 50; i++ {
			assert.Equal(t, "{{order_id}} 7", InjectVariables("{{currency}} {{order_id}}", vars))
		}
	})
}

func TestTexturize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain", "Pay via $cashtag", "Pay via $cashtag"},
		{"Ellipsis", "Wait...", "Wait…"},
		{"Dashes", "a---b c -- d e--f", "a—b c – d e–f"},
		{"DoubleQuotes", `Use note "order 5"`, "Use note “order 5”"},
		{"Apostrophe", "Don't forget", "Don’t forget"},
		{"SingleQuotes", "say 'hi'", "say ‘hi’"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Texturize(tt.in))
		})
	}
}

func TestAutop(t *testing.T) {
	t.Run("SingleParagraph", func(t *testing.T) {
		assert.Equal(t, "<p>Pay via $cashtag</p>\n", Autop("Pay via $cashtag"))
	})

	t.Run("LineBreaksAndParagraphs", func(t *testing.T) {
		in := "Line one\nLine two\n\n  \nSecond paragraph"
		want := "<p>Line one<br />\nLine two</p>\n<p>Second paragraph</p>\n"
		assert.Equal(t, want, Autop(in))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", Autop("  \n "))
	})
}

func TestFormatHTML(t *testing.T) {
	got := FormatHTML("Pay <b>now</b> & send proof")
	assert.Equal(t, "<p>Pay &lt;b&gt;now&lt;/b&gt; &amp; send proof</p>\n", got)
}

func TestFormatPlain(t *testing.T) {
	assert.Equal(t, "Step 1\n\nStep 2…", FormatPlain("  Step 1\r\n\r\n\r\nStep 2...  "))
}
