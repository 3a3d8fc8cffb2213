package history

import "sync"

// Message types sent to the browser.
const (
	MessagePush    = "push"
	MessageReplace = "replace"
	MessageGo      = "go"
)

// Message is a history operation for the browser to apply.
type Message struct {
	Type  string `json:"type"`
	URL   string `json:"url,omitempty"`
	Delta int    `json:"delta,omitempty"`
}

// Sender delivers a history message to the browser.
type Sender func(Message) error

// Remote mirrors a browser's session history. It tracks the location the
// browser is expected to show and forwards changes through a Sender.
type Remote struct {
	send Sender

	mu       sync.Mutex
	location string
	err      error

	listeners listeners
}

// NewRemote creates a remote history whose browser currently shows initial.
func NewRemote(initial string, send Sender) *Remote {
	if initial == "" {
		initial = "/"
	}
	return &Remote{location: initial, send: send}
}

// Location returns the location the browser shows.
func (r *Remote) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Push asks the browser to push location.
func (r *Remote) Push(location string) {
	r.mu.Lock()
	r.location = location
	r.mu.Unlock()
	r.deliver(Message{Type: MessagePush, URL: location})
}

// Replace asks the browser to replace its current entry.
func (r *Remote) Replace(location string) {
	r.mu.Lock()
	r.location = location
	r.mu.Unlock()
	r.deliver(Message{Type: MessageReplace, URL: location})
}

// Back asks the browser to go back. The resulting location arrives
// through Popstate.
func (r *Remote) Back() {
	r.deliver(Message{Type: MessageGo, Delta: -1})
}

// Forward asks the browser to go forward.
func (r *Remote) Forward() {
	r.deliver(Message{Type: MessageGo, Delta: 1})
}

// Popstate records a back/forward move made in the browser and notifies
// listeners.
func (r *Remote) Popstate(location string) {
	r.mu.Lock()
	r.location = location
	r.mu.Unlock()
	r.listeners.notify(location)
}

// Listen registers fn for back/forward moves.
func (r *Remote) Listen(fn func(location string)) (stop func()) {
	return r.listeners.add(fn)
}

// Err returns the most recent delivery error, if any.
func (r *Remote) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *Remote) deliver(msg Message) {
	if r.send == nil {
		return
	}
	if err := r.send(msg); err != nil {
		r.mu.Lock()
		r.err = err
		r.mu.Unlock()
	}
}
