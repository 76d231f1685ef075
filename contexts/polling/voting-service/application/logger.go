package application

import "log/slog"

// ModuleName is the value of the "module" log key for this service.
const ModuleName = "polling/voting-service"

// ResolveLogger guarantees a non-nil logger for application code paths.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
