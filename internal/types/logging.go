package types

// LogLevel represents the logging verbosity for the service
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// RunMode represents the deployment mode of the service
type RunMode string

const (
	RunModeLocal RunMode = "local"
	RunModeProd  RunMode = "prod"
)
