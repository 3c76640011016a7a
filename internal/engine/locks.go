package engine

import "sync"

// roomLocks hands out one mutex per room so that bookings for the same
// room are checked and committed one at a time within the process.
type roomLocks struct {
	mu    sync.Mutex
	rooms map[int64]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{rooms: make(map[int64]*sync.Mutex)}
}

// lock blocks until the room's mutex is held and returns its release func.
func (l *roomLocks) lock(roomID int64) func() {
	l.mu.Lock()
	m, ok := l.rooms[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.rooms[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
