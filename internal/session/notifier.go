package session

import "sync"

// Level classifies a user-visible notification
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Event is a notification shown to the user, such as a login confirmation
// or a rejected write
type Event struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives user-visible notifications
type Notifier interface {
	Notify(Event)
}

// NopNotifier discards notifications
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(Event) {}

// Recorder buffers notifications for delivery to the client on the next
// view render
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify implements Notifier
func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Drain returns buffered notifications and clears the buffer
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}
