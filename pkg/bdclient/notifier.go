package bdclient

// Severity grades user-facing notifications.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// Notifier receives diagnostics from the client and repository layers. Log
// lines are developer-facing; Notify is the optional user-facing channel the
// host shell surfaces however it likes (status bar, toast, problem panel).
// The core never writes to a terminal or UI directly.
type Notifier interface {
	Log(msg string)
	Warn(msg string)
	Error(msg string)
	Notify(msg string, sev Severity)
}

// NopNotifier discards everything. Used as the default so callers can wire
// diagnostics only where they want them.
type NopNotifier struct{}

func (NopNotifier) Log(string)              {}
func (NopNotifier) Warn(string)             {}
func (NopNotifier) Error(string)            {}
func (NopNotifier) Notify(string, Severity) {}

// FuncNotifier adapts plain callbacks to the Notifier interface. Nil fields
// are no-ops, so a caller can supply only the channels it cares about.
type FuncNotifier struct {
	LogFunc    func(msg string)
	WarnFunc   func(msg string)
	ErrorFunc  func(msg string)
	NotifyFunc func(msg string, sev Severity)
}

func (f FuncNotifier) Log(msg string) {
	if f.LogFunc != nil {
		f.LogFunc(msg)
	}
}

func (f FuncNotifier) Warn(msg string) {
	if f.WarnFunc != nil {
		f.WarnFunc(msg)
	}
}

func (f FuncNotifier) Error(msg string) {
	if f.ErrorFunc != nil {
		f.ErrorFunc(msg)
	}
}

func (f FuncNotifier) Notify(msg string, sev Severity) {
	if f.NotifyFunc != nil {
		f.NotifyFunc(msg, sev)
	}
}
