package proxy

import (
	"testing"

	"ozon-orders/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Disabled(t *testing.T) {
	s := FromConfig(config.ProxyConfig{Hostname: "proxy.local", Port: 3128})

	assert.False(t, s.HasProxy())
	assert.Nil(t, s.URL())
}

func TestSettings_URL(t *testing.T) {
	t.Run("WithCredentials", func(t *testing.T) {
		s := FromConfig(config.ProxyConfig{
			Enabled:  true,
			Hostname: "proxy.local",
			Port:     3128,
			Username: "user",
			Password: "p@ss",
		})

		require.True(t, s.HasProxy())

		u := s.URL()
		require.NotNil(t, u)
		assert.Equal(t, "http", u.Scheme)
		assert.Equal(t, "proxy.local:3128", u.Host)
		assert.Equal(t, "user", u.User.Username())
		pass, ok := u.User.Password()
		assert.True(t, ok)
		assert.Equal(t, "p@ss", pass)
	})

	t.Run("WithoutCredentials", func(t *testing.T) {
		s := Settings{Enabled: true, Hostname: "proxy.local", Port: 8080}

		u := s.URL()
		require.NotNil(t, u)
		assert.Nil(t, u.User)
		assert.Equal(t, "http://proxy.local:8080", u.String())
	})
}
