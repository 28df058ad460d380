package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrNotInAnyRoom = errors.New("connection is not in any room")
)

// Registry is the process-wide table of live rooms. It owns the
// code -> Room map and the connID -> code inverse index, and is the single
// serialization point for creation and destruction so the code-uniqueness
// and inverse-mapping invariants cannot be raced.
type Registry struct {
	allocator      *CodeAllocator
	rooms          map[string]*Room
	connectionRoom map[string]string
	lock           sync.RWMutex
}

// LeaveResult describes one connection's removal from its room, copied out
// under the registry lock so broadcasts never touch live state.
type LeaveResult struct {
	Code       string
	PlayerName string
	WasHost    bool
	NewHost    string
	Remaining  []string
	Destroyed  bool
}

func NewRegistry(allocator *CodeAllocator) *Registry {
	return &Registry{
		allocator:      allocator,
		rooms:          make(map[string]*Room),
		connectionRoom: make(map[string]string),
	}
}

// CreateRoom allocates a code, builds the room with the creator as its
// first (and therefore host) member and registers both mappings as one
// atomic step; no concurrent lookup observes a half-initialized room.
// A connection belongs to at most one room: a creator still mapped to a
// previous room is detached from it first, and that departure (with its
// destroy/re-elect bookkeeping) is returned for the caller to announce.
func (g *Registry) CreateRoom(connID, name string) (RoomSnapshot, *LeaveResult, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	code, err := g.allocator.Allocate(func(c string) bool {
		_, taken := g.rooms[c]
		return taken
	})
	if err != nil {
		return RoomSnapshot{}, nil, err
	}
	var left *LeaveResult
	if res, ok := g.removeLocked(connID); ok {
		left = &res
	}
	room := NewRoom(code)
	room.AddMember(connID, name)
	g.rooms[code] = room
	g.connectionRoom[connID] = code
	return room.Snapshot(), left, nil
}

// JoinRoom matches codes case-insensitively against the stored uppercase
// form. Joining while still mapped to a different room detaches from that
// room first; re-joining the current room just refreshes the name.
func (g *Registry) JoinRoom(code, connID, name string) (RoomSnapshot, *LeaveResult, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	room, ok := g.rooms[normalizeCode(code)]
	if !ok {
		return RoomSnapshot{}, nil, ErrRoomNotFound
	}
	var left *LeaveResult
	if prev, mapped := g.connectionRoom[connID]; mapped && prev != room.Code() {
		if res, ok := g.removeLocked(connID); ok {
			left = &res
		}
	}
	room.AddMember(connID, name)
	g.connectionRoom[connID] = room.Code()
	return room.Snapshot(), left, nil
}

// RemoveConnection is the shared implementation behind voluntary leave,
// kick and disconnect. When the last member goes, the room is destroyed
// and its code released for immediate reuse.
func (g *Registry) RemoveConnection(connID string) (LeaveResult, error) {
	g.lock.Lock()
	defer g.lock.Unlock()
	res, ok := g.removeLocked(connID)
	if !ok {
		return LeaveResult{}, ErrNotInAnyRoom
	}
	return res, nil
}

// removeLocked detaches connID from whatever room the inverse index maps
// it to. Caller holds the registry write lock.
func (g *Registry) removeLocked(connID string) (LeaveResult, bool) {
	code, ok := g.connectionRoom[connID]
	if !ok {
		return LeaveResult{}, false
	}
	room, ok := g.rooms[code]
	if !ok {
		// Inverse index out of sync with the room table: continuing would
		// desynchronize every client in the room, not just this one.
		panic(fmt.Sprintf("registry: connection %s mapped to missing room %s", connID, code))
	}
	name, _ := room.MemberName(connID)
	delete(g.connectionRoom, connID)
	count, wasHost := room.RemoveMember(connID)
	res := LeaveResult{Code: code, PlayerName: name, WasHost: wasHost}
	if count == 0 {
		delete(g.rooms, code)
		res.Destroyed = true
		return res, true
	}
	if host, ok := room.CurrentHost(); ok {
		res.NewHost = host
	}
	res.Remaining = room.Names()
	return res, true
}

func (g *Registry) Lookup(code string) (*Room, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	room, ok := g.rooms[normalizeCode(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (g *Registry) RoomOf(connID string) (string, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	code, ok := g.connectionRoom[connID]
	if !ok {
		return "", ErrNotInAnyRoom
	}
	return code, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
