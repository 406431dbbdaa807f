package bans

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetwork(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"154.93.0.0/16", "154.93.0.0/16"},
		{"11.233.109.201", "11.233.109.201/32"},
		{"::1", "::1/128"},
		{"123.", "123.0.0.0/8"},
		{"109.103.", "109.103.0.0/16"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			network, err := ParseNetwork(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, network.String())
		})
	}
}

func TestParseNetworkInvalid(t *testing.T) {
	for _, in := range []string{"", "localhost", "300.1.", "1.2.3.4.5"} {
		_, err := ParseNetwork(in)
		assert.Error(t, err, in)
	}
}

func TestBanUnmarshalJSON(t *testing.T) {
	var bans []*Ban
	err := json.Unmarshal([]byte(`[
		{"network": "10.0.0.0/8", "reason": "spam"},
		{"network": "192.168.1.7", "reason": "flood", "expiry_date": 1700000000}
	]`), &bans)
	require.NoError(t, err)
	require.Len(t, bans, 2)

	assert.Equal(t, "10.0.0.0/8", bans[0].Network.String())
	assert.Equal(t, "spam", bans[0].Reason)
	assert.True(t, bans[0].ExpiryDate.IsZero())

	assert.Equal(t, "192.168.1.7/32", bans[1].Network.String())
	assert.Equal(t, time.Unix(1700000000, 0), bans[1].ExpiryDate)

	err = json.Unmarshal([]byte(`[{"network": "nope"}]`), &bans)
	assert.Error(t, err)
}

func TestBanExpired(t *testing.T) {
	now := time.Now()
	_, network, _ := net.ParseCIDR("10.0.0.0/8")

	assert.False(t, (&Ban{Network: network}).expired(now))
	assert.False(t, (&Ban{Network: network, ExpiryDate: now.Add(time.Hour)}).expired(now))
	assert.True(t, (&Ban{Network: network, ExpiryDate: now.Add(-time.Hour)}).expired(now))
}
