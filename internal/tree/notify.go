package tree

// Notifier surfaces the outcome of user actions. Calls are fire-and-forget.
type Notifier interface {
	NotifySuccess(msg string)
	NotifyError(msg string)
}

// Kind distinguishes success from error notifications.
type Kind int

const (
	KindSuccess Kind = iota
	KindError
)

// Notification is one recorded message.
type Notification struct {
	Kind    Kind
	Message string
}

// IsError reports whether n is an error notification.
func (n Notification) IsError() bool { return n.Kind == KindError }

// Recorder is a Notifier that keeps messages until they are taken.
// The TUI drains it after every command to fill its status line.
type Recorder struct {
	notes []Notification
}

func (r *Recorder) NotifySuccess(msg string) {
	r.notes = append(r.notes, Notification{Kind: KindSuccess, Message: msg})
}

func (r *Recorder) NotifyError(msg string) {
	r.notes = append(r.notes, Notification{Kind: KindError, Message: msg})
}

// Take returns all recorded notifications and clears the recorder.
func (r *Recorder) Take() []Notification {
	out := r.notes
	r.notes = nil
	return out
}

// Last returns the most recent notification without clearing.
func (r *Recorder) Last() (Notification, bool) {
	if len(r.notes) == 0 {
		return Notification{}, false
	}
	return r.notes[len(r.notes)-1], true
}

type nopNotifier struct{}

func (nopNotifier) NotifySuccess(string) {}
func (nopNotifier) NotifyError(string)   {}
