package main

import "sync"

// Hub tracks every live socket and the named groups (room codes) each one
// belongs to, and implements the Transport capability the coordinator
// uses for delivery. Group membership here mirrors registry membership
// but belongs to the transport layer; the registry never sees sockets.
type Hub struct {
	sockets map[string]*PlayerSocket
	groups  map[string]map[string]struct{}
	lock    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		sockets: make(map[string]*PlayerSocket),
		groups:  make(map[string]map[string]struct{}),
	}
}

func (h *Hub) Register(s *PlayerSocket) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.sockets[s.ID()] = s
}

func (h *Hub) Unregister(connID string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	delete(h.sockets, connID)
	for code, members := range h.groups {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.groups, code)
		}
	}
}

func (h *Hub) JoinGroup(connID, code string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	members, ok := h.groups[code]
	if !ok {
		members = make(map[string]struct{})
		h.groups[code] = members
	}
	members[connID] = struct{}{}
}

func (h *Hub) LeaveGroup(connID, code string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	members, ok := h.groups[code]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.groups, code)
	}
}

// EmitTo delivers to a group when target names one, otherwise to the
// single connection with that id. Connection ids are uuids, so they never
// collide with room codes.
func (h *Hub) EmitTo(target string, event string, payload any) {
	frame := encodeFrame(event, payload)
	h.lock.RLock()
	defer h.lock.RUnlock()
	if members, ok := h.groups[target]; ok {
		for connID := range members {
			if s, ok := h.sockets[connID]; ok {
				s.Enqueue(frame)
			}
		}
		return
	}
	if s, ok := h.sockets[target]; ok {
		s.Enqueue(frame)
	}
}
