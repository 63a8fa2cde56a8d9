package webhook

import "errors"

var (
	ErrInvalidToken   = errors.New("webhook: invalid secret token")
	ErrIPNotAllowed   = errors.New("webhook: source address not whitelisted")
	ErrInvalidAllowed = errors.New("webhook: invalid allowed_ips entry")
)
