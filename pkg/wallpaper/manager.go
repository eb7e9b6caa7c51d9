package wallpaper

import (
	"context"
	"sync"
	"time"

	"github.com/dixieflatline76/jukebox/pkg/settings"
	"github.com/dixieflatline76/jukebox/util/log"
	"github.com/google/uuid"
)

// managed is a session plus its attachment bookkeeping.
type managed struct {
	sess    *Session
	clients int
	idle    *time.Timer
	idleSeq uint64
}

// Manager owns the rotation sessions of the server. With a positive
// IdleTimeout a session that has no attached client and no API activity for
// that long is closed.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*managed
	opts     Options
}

// NewManager creates a manager whose sessions share opts.
func NewManager(opts Options) *Manager {
	return &Manager{sessions: make(map[string]*managed), opts: opts}
}

// Create starts a new session with the given settings.
func (m *Manager) Create(ctx context.Context, s settings.Settings) *Session {
	sess := NewSession(ctx, uuid.NewString(), s, m.opts)

	m.mu.Lock()
	e := &managed{sess: sess}
	m.sessions[sess.ID()] = e
	m.armIdleLocked(e)
	count := len(m.sessions)
	m.mu.Unlock()

	m.setActive(count)
	log.Printf("[Wallpaper] Session %s created (%d active)", sess.ID(), count)
	sess.Start()
	return sess
}

// Get returns the session with id. A lookup counts as activity and restarts
// the idle countdown of a session without clients.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	m.armIdleLocked(e)
	return e.sess, true
}

// Attach records a connected client of id. An attached session never idles
// out. It reports whether the session exists.
func (m *Manager) Attach(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return false
	}
	e.clients++
	m.stopIdleLocked(e)
	return true
}

// Detach releases a client taken with Attach. The idle countdown starts when
// the last client leaves.
func (m *Manager) Detach(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || e.clients == 0 {
		return
	}
	e.clients--
	m.armIdleLocked(e)
}

// Delete closes and removes the session with id.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		m.stopIdleLocked(e)
		delete(m.sessions, id)
	}
	count := len(m.sessions)
	m.mu.Unlock()
	if !ok {
		return false
	}

	e.sess.Close()
	m.setActive(count)
	log.Printf("[Wallpaper] Session %s closed (%d active)", id, count)
	return true
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*managed)
	for _, e := range sessions {
		m.stopIdleLocked(e)
	}
	m.mu.Unlock()

	for _, e := range sessions {
		e.sess.Close()
	}
	m.setActive(0)
}

func (m *Manager) armIdleLocked(e *managed) {
	if m.opts.IdleTimeout <= 0 || e.clients > 0 {
		return
	}
	m.stopIdleLocked(e)
	seq := e.idleSeq
	id := e.sess.ID()
	e.idle = time.AfterFunc(m.opts.IdleTimeout, func() { m.expire(id, e, seq) })
}

func (m *Manager) stopIdleLocked(e *managed) {
	e.idleSeq++
	if e.idle != nil {
		e.idle.Stop()
		e.idle = nil
	}
}

// expire closes the session unless it was touched after the timer was armed.
func (m *Manager) expire(id string, e *managed, seq uint64) {
	m.mu.Lock()
	if cur, ok := m.sessions[id]; !ok || cur != e || e.idleSeq != seq || e.clients > 0 {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, id)
	e.idle = nil
	count := len(m.sessions)
	m.mu.Unlock()

	e.sess.Close()
	m.setActive(count)
	log.Printf("[Wallpaper] Session %s expired after %v without clients (%d active)", id, m.opts.IdleTimeout, count)
}

func (m *Manager) setActive(count int) {
	if m.opts.Metrics != nil {
		m.opts.Metrics.ActiveSessions.Set(float64(count))
	}
}
