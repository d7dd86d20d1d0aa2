package core

// LogPerson identifies the authenticated principal attached to a log entry.
type LogPerson struct {
	ID       string
	Username string
	Email    string
}

// Logger is any leveled logging service.
// Args may include errors, maps and a LogPerson; implementations decide
// how to render them.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}
