package webhook

import (
	"crypto/subtle"
	"fmt"
	"net"
	"strings"
)

// SecurityValidator validates webhook requests
type SecurityValidator struct {
	secret []byte
	ips    []net.IP
	nets   []*net.IPNet
}

// NewSecurityValidator parses the allow-list up front so a typo fails at startup.
func NewSecurityValidator(config SecurityConfig) (*SecurityValidator, error) {
	v := &SecurityValidator{secret: []byte(config.SecretToken)}
	for _, entry := range config.AllowedIPs {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidAllowed, entry)
			}
			v.nets = append(v.nets, ipNet)
			continue
		}
		ip := net.ParseIP(entry)
		if ip == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAllowed, entry)
		}
		v.ips = append(v.ips, ip)
	}
	return v, nil
}

// ValidateSecretToken compares the header Telegram echoes back with the registered secret.
func (v *SecurityValidator) ValidateSecretToken(token string) error {
	if len(v.secret) == 0 {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(token), v.secret) != 1 {
		return ErrInvalidToken
	}
	return nil
}

// ValidateIPAddress checks the client IP against the allow-list. The caller resolves
// the IP; forwarding headers count only when sent by a trusted proxy.
func (v *SecurityValidator) ValidateIPAddress(raw string) error {
	if len(v.ips) == 0 && len(v.nets) == 0 {
		return nil // No IP restriction
	}

	ip := net.ParseIP(raw)
	if ip == nil {
		return fmt.Errorf("%w: %q", ErrIPNotAllowed, raw)
	}

	for _, allowed := range v.ips {
		if allowed.Equal(ip) {
			return nil
		}
	}
	for _, ipNet := range v.nets {
		if ipNet.Contains(ip) {
			return nil
		}
	}

	return fmt.Errorf("%w: %s", ErrIPNotAllowed, raw)
}
