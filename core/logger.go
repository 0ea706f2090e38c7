package core

// Logger is any structured logger. args may carry errors, maps of extra data
// and at most one session.Session identifying the current learner.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
