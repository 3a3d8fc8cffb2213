package history

import "sync"

// Memory is an in-process session history: a stack of locations and a
// cursor. Push drops any entries ahead of the cursor, as browsers do.
type Memory struct {
	mu      sync.Mutex
	entries []string
	index   int

	listeners listeners
}

// NewMemory creates a history whose only entry is initial ("/" if empty).
func NewMemory(initial string) *Memory {
	if initial == "" {
		initial = "/"
	}
	return &Memory{entries: []string{initial}}
}

// Location returns the current entry.
func (m *Memory) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// Push adds location after the current entry and moves to it.
func (m *Memory) Push(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries[:m.index+1], location)
	m.index++
}

// Replace overwrites the current entry.
func (m *Memory) Replace(location string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.index] = location
}

// Back moves one entry back and notifies listeners. It does nothing at
// the first entry.
func (m *Memory) Back() {
	m.Go(-1)
}

// Forward moves one entry forward and notifies listeners. It does nothing
// at the last entry.
func (m *Memory) Forward() {
	m.Go(1)
}

// Go moves delta entries and notifies listeners. Moves past either end of
// the stack are ignored.
func (m *Memory) Go(delta int) {
	m.mu.Lock()
	next := m.index + delta
	if delta == 0 || next < 0 || next >= len(m.entries) {
		m.mu.Unlock()
		return
	}
	m.index = next
	loc := m.entries[next]
	m.mu.Unlock()

	m.listeners.notify(loc)
}

// Listen registers fn for back/forward moves.
func (m *Memory) Listen(fn func(location string)) (stop func()) {
	return m.listeners.add(fn)
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// snapshot returns a copy of the stack and the cursor position.
func (m *Memory) snapshot() ([]string, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	copy(out, m.entries)
	return out, m.index
}
