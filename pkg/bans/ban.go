package bans

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/sauerbraten/chef/pkg/ips"
)

type Ban struct {
	Network    *net.IPNet
	Reason     string
	ExpiryDate time.Time // zero means the ban never expires
	Domain     string    // "" for bans from the local ban file
}

// ParseNetwork accepts CIDR ranges ("154.93.0.0/16"), single IPs and partial IPs ("123.", "109.103.").
func ParseNetwork(s string) (*net.IPNet, error) {
	if _, network, err := net.ParseCIDR(s); err == nil {
		return network, nil
	}

	if ip := net.ParseIP(s); ip != nil {
		bits := 8 * net.IPv6len
		if ip.To4() != nil {
			ip = ip.To4()
			bits = 8 * net.IPv4len
		}
		return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
	}

	if ips.IsPartialOrFullCIDR(s) {
		if network := ips.GetSubnet(s); network != nil {
			return network, nil
		}
	}

	return nil, fmt.Errorf("invalid network %q", s)
}

// UnmarshalJSON implements json.Unmarshaler for Ban
func (b *Ban) UnmarshalJSON(jsonBytes []byte) error {
	ban := struct {
		Network    string `json:"network"`
		Reason     string `json:"reason"`
		ExpiryDate int64  `json:"expiry_date"` // unix seconds, 0 for permanent bans
	}{}
	err := json.Unmarshal(jsonBytes, &ban)
	if err != nil {
		return err
	}

	b.Network, err = ParseNetwork(ban.Network)
	if err != nil {
		return err
	}
	b.Reason = ban.Reason
	if ban.ExpiryDate != 0 {
		b.ExpiryDate = time.Unix(ban.ExpiryDate, 0)
	}

	return nil
}

func (b *Ban) String() string {
	if b.ExpiryDate.IsZero() {
		return fmt.Sprintf("%v is banned indefinitely (%v)", b.Network, b.Reason)
	}
	return fmt.Sprintf("%v is banned until %v (%v)", b.Network, b.ExpiryDate.Format(time.RFC3339), b.Reason)
}

func (b *Ban) expired(now time.Time) bool {
	return !b.ExpiryDate.IsZero() && b.ExpiryDate.Before(now)
}
