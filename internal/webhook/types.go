package webhook

// SecurityConfig holds webhook security settings
type SecurityConfig struct {
	SecretToken string   // Expected X-Telegram-Bot-Api-Secret-Token value (optional)
	AllowedIPs  []string // IP whitelist, plain addresses or CIDR ranges (optional)
}
