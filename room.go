package main

import (
	"errors"
	"slices"
	"sync"
)

type RoomState string

const (
	StateWaiting RoomState = "waiting"
	StatePlaying RoomState = "playing"
	StateEnded   RoomState = "ended"
)

var ErrInvalidTransition = errors.New("illegal room state change")

const defaultMode = "1v1"

type roomMember struct {
	connID string
	name   string
}

// Room owns the ordered membership and lifecycle state of one lobby.
// Insertion order defines host precedence: the earliest remaining joiner
// is the host, recomputed on every query rather than cached.
type Room struct {
	code     string
	members  []roomMember
	present  map[string]struct{}
	state    RoomState
	metadata map[string]string
	lock     sync.RWMutex
}

type RoomSnapshot struct {
	Code    string
	Players []string
	State   RoomState
	Mode    string
}

func NewRoom(code string) *Room {
	return &Room{
		code:     code,
		members:  make([]roomMember, 0, 4),
		present:  make(map[string]struct{}),
		state:    StateWaiting,
		metadata: make(map[string]string),
	}
}

func (r *Room) Code() string {
	return r.code
}

// AddMember appends connID to the membership order. Re-adding an existing
// member overwrites its name without changing its position.
func (r *Room) AddMember(connID, name string) int {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.present[connID]; ok {
		for i := range r.members {
			if r.members[i].connID == connID {
				r.members[i].name = name
				break
			}
		}
		return len(r.members)
	}
	r.members = append(r.members, roomMember{connID, name})
	r.present[connID] = struct{}{}
	return len(r.members)
}

// RemoveMember reports whether connID was the host immediately before
// removal. Removing an absent member is a no-op.
func (r *Room) RemoveMember(connID string) (int, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.present[connID]; !ok {
		return len(r.members), false
	}
	wasHost := len(r.members) > 0 && r.members[0].connID == connID
	for i := range r.members {
		if r.members[i].connID == connID {
			r.members = slices.Delete(r.members, i, i+1)
			break
		}
	}
	delete(r.present, connID)
	return len(r.members), wasHost
}

func (r *Room) CurrentHost() (string, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if len(r.members) == 0 {
		return "", false
	}
	return r.members[0].connID, true
}

func (r *Room) HasMember(connID string) bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	_, ok := r.present[connID]
	return ok
}

func (r *Room) MemberName(connID string) (string, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, m := range r.members {
		if m.connID == connID {
			return m.name, true
		}
	}
	return "", false
}

// Names returns display names in join order.
func (r *Room) Names() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.namesLocked()
}

func (r *Room) namesLocked() []string {
	names := make([]string, len(r.members))
	for i, m := range r.members {
		names[i] = m.name
	}
	return names
}

// SetMetadata is legal only while the room is waiting; identity checks
// are the coordinator's job, not the Room's.
func (r *Room) SetMetadata(key, value string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state != StateWaiting {
		return ErrInvalidTransition
	}
	r.metadata[key] = value
	return nil
}

func (r *Room) State() RoomState {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.state
}

func (r *Room) Transition(next RoomState) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	legal := (r.state == StateWaiting && next == StatePlaying) ||
		(r.state == StatePlaying && next == StateEnded)
	if !legal {
		return ErrInvalidTransition
	}
	r.state = next
	return nil
}

func (r *Room) Snapshot() RoomSnapshot {
	r.lock.RLock()
	defer r.lock.RUnlock()
	mode, ok := r.metadata["mode"]
	if !ok {
		mode = defaultMode
	}
	return RoomSnapshot{
		Code:    r.code,
		Players: r.namesLocked(),
		State:   r.state,
		Mode:    mode,
	}
}
