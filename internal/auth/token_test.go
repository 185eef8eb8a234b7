package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAccessToken(t *testing.T) {
	const secret = "test-secret"

	adminToken, err := GenerateToken(secret, 1, "owner@shop.example.com", "admin", time.Hour)
	require.NoError(t, err)
	customerToken, err := GenerateToken(secret, 2, "sam@example.com", "customer", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		cookie *http.Cookie
		header string
		want   string
	}{
		{"CookieWinsOverHeader", &http.Cookie{Name: AccessTokenCookie, Value: adminToken}, "Bearer " + customerToken, adminToken},
		{"HeaderOnly", nil, "Bearer " + customerToken, customerToken},
		{"EmptyCookieUsesHeader", &http.Cookie{Name: AccessTokenCookie, Value: ""}, "Bearer " + customerToken, customerToken},
		{"OtherCookieIgnored", &http.Cookie{Name: "cart_session", Value: adminToken}, "", ""},
		{"BasicAuthIgnored", nil, "Basic b3duZXI6cGFzcw==", ""},
		{"Nothing", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/checkout/orders/7/payment", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			assert.Equal(t, tt.want, ExtractAccessToken(req))
		})
	}

	t.Run("ExtractedCookieParses", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/payment-gateways/cashapp/settings", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: adminToken})

		claims, err := ParseToken(secret, ExtractAccessToken(req))
		require.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
		assert.Equal(t, "admin", claims.Role)
	})
}
