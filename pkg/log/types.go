package log

// ZapConfig configures the zap backed logger.
type ZapConfig struct {
	Level        string // debug, info, warn, error, dpanic, panic, fatal
	Mode         string // production or development
	Encoding     string // console or json
	ColorEnabled bool
}

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"

	EncodingConsole = "console"
	EncodingJSON    = "json"
)
