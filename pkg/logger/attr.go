package logger

import "log/slog"

// Error records a single error under the key "error"; nil yields an empty
// attr that slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("user_id", id)
}

// Component tags a record with the emitting subsystem.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Provider tags a record with a federated identity provider name.
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}
