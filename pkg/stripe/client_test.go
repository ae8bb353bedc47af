package stripe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/farmdirectmeat/farmshare-backend/pkg/config"
)

func TestNormalizeEnv(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to test", raw: "", want: testEnv},
		{name: "test passthrough", raw: "test", want: testEnv},
		{name: "live passthrough", raw: "live", want: liveEnv},
		{name: "mixed case trimmed", raw: "  LIVE ", want: liveEnv},
		{name: "unknown rejected", raw: "sandbox", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeEnv(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestValidateAPIKey(t *testing.T) {
	require.NoError(t, validateAPIKey(testEnv, "sk_test_123"))
	require.NoError(t, validateAPIKey(testEnv, "rk_test_123"))
	require.NoError(t, validateAPIKey(liveEnv, "sk_live_123"))
	require.NoError(t, validateAPIKey(liveEnv, "rk_live_123"))

	require.Error(t, validateAPIKey(testEnv, "sk_live_123"))
	require.Error(t, validateAPIKey(liveEnv, "sk_test_123"))
	require.Error(t, validateAPIKey("staging", "sk_test_123"))
}

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	t.Run("missing api key", func(t *testing.T) {
		_, err := NewClient(ctx, config.StripeConfig{WebhookSecret: "whsec_x"}, nil)
		require.ErrorIs(t, err, errAPIKeyRequired)
	})

	t.Run("missing webhook secret", func(t *testing.T) {
		_, err := NewClient(ctx, config.StripeConfig{APIKey: "sk_test_abc"}, nil)
		require.ErrorIs(t, err, errSecretRequired)
	})

	t.Run("mismatched key for live env", func(t *testing.T) {
		cfg := config.StripeConfig{APIKey: "sk_test_abc", WebhookSecret: "whsec_x", Env: "live"}
		_, err := NewClient(ctx, cfg, nil)
		require.Error(t, err)
	})

	t.Run("success", func(t *testing.T) {
		cfg := config.StripeConfig{APIKey: "sk_test_abc", WebhookSecret: "whsec_x"}
		client, err := NewClient(ctx, cfg, nil)
		require.NoError(t, err)
		require.NotNil(t, client.API())
		require.Equal(t, testEnv, client.Environment())
		require.Equal(t, "whsec_x", client.SigningSecret())
	})
}

func TestNilClientAccessors(t *testing.T) {
	var c *Client
	require.Nil(t, c.API())
	require.Empty(t, c.Environment())
	require.Empty(t, c.SigningSecret())
}
