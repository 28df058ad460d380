package main

import (
	"fmt"
	"strings"
	"sync"
	"testing"
)

func newTestRegistry() *Registry {
	return NewRegistry(NewCodeAllocator(defaultCodeLength))
}

// Both mappings must agree: connectionRoom[c] == code iff the room at
// code holds c as a member.
func checkConsistency(t *testing.T, g *Registry) {
	t.Helper()
	g.lock.RLock()
	defer g.lock.RUnlock()
	for connID, code := range g.connectionRoom {
		room, ok := g.rooms[code]
		if !ok {
			t.Fatalf("connection %s mapped to missing room %s", connID, code)
		}
		if !room.HasMember(connID) {
			t.Fatalf("room %s does not contain mapped connection %s", code, connID)
		}
	}
	for code, room := range g.rooms {
		for _, m := range room.members {
			if g.connectionRoom[m.connID] != code {
				t.Fatalf("member %s of room %s has no inverse mapping", m.connID, code)
			}
		}
	}
}

func TestCreateJoinRemoveConsistency(t *testing.T) {
	g := newTestRegistry()
	snap, _, err := g.CreateRoom("a", "Alice")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	checkConsistency(t, g)

	if _, _, err := g.JoinRoom(snap.Code, "b", "Bob"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	checkConsistency(t, g)

	res, err := g.RemoveConnection("a")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !res.WasHost {
		t.Error("creator removal should report wasHost")
	}
	if res.NewHost != "b" {
		t.Errorf("wrong new host expected: b got: %q", res.NewHost)
	}
	checkConsistency(t, g)
}

func TestJoinIsCaseInsensitive(t *testing.T) {
	g := newTestRegistry()
	snap, _, _ := g.CreateRoom("a", "Alice")
	joined, _, err := g.JoinRoom(strings.ToLower(snap.Code), "b", "Bob")
	if err != nil {
		t.Fatalf("lowercase join failed: %v", err)
	}
	if joined.Code != snap.Code {
		t.Errorf("wrong code expected: %q got: %q", snap.Code, joined.Code)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	g := newTestRegistry()
	if _, _, err := g.JoinRoom("NOSUCH", "b", "Bob"); err != ErrRoomNotFound {
		t.Errorf("expected ErrRoomNotFound got: %v", err)
	}
}

func TestLastMemberDestroysRoomAndFreesCode(t *testing.T) {
	g := newTestRegistry()
	snap, _, _ := g.CreateRoom("a", "Alice")

	res, err := g.RemoveConnection("a")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if !res.Destroyed {
		t.Error("removing the last member should destroy the room")
	}
	if _, err := g.Lookup(snap.Code); err != ErrRoomNotFound {
		t.Errorf("destroyed room still resolvable: %v", err)
	}
	if _, err := g.RoomOf("a"); err != ErrNotInAnyRoom {
		t.Errorf("stale inverse mapping: %v", err)
	}
	g.lock.RLock()
	_, stillTaken := g.rooms[snap.Code]
	g.lock.RUnlock()
	if stillTaken {
		t.Error("code not released for reuse")
	}
}

// A connection that joins a second room must be detached from its first,
// including the destroy/re-elect bookkeeping along the way.
func TestJoinSecondRoomDetachesFromFirst(t *testing.T) {
	g := newTestRegistry()
	first, _, _ := g.CreateRoom("x", "Xavier")
	second, _, _ := g.CreateRoom("y", "Yara")

	snap, left, err := g.JoinRoom(second.Code, "x", "Xavier")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if left == nil {
		t.Fatal("expected a departure from the first room")
	}
	if left.Code != first.Code {
		t.Errorf("wrong departed room expected: %q got: %q", first.Code, left.Code)
	}
	if !left.Destroyed {
		t.Error("first room lost its only member and should be destroyed")
	}
	if _, err := g.Lookup(first.Code); err != ErrRoomNotFound {
		t.Errorf("first room still registered: %v", err)
	}
	if code, _ := g.RoomOf("x"); code != second.Code {
		t.Errorf("wrong mapping expected: %q got: %q", second.Code, code)
	}
	if len(snap.Players) != 2 {
		t.Errorf("wrong member count expected: 2 got: %d", len(snap.Players))
	}
	checkConsistency(t, g)
}

func TestCreateSecondRoomDetachesFromFirst(t *testing.T) {
	g := newTestRegistry()
	first, _, _ := g.CreateRoom("x", "Xavier")
	g.JoinRoom(first.Code, "x2", "Xena")

	_, left, err := g.CreateRoom("x", "Xavier")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if left == nil {
		t.Fatal("expected a departure from the first room")
	}
	if left.Destroyed {
		t.Error("first room still has a member and must survive")
	}
	if !left.WasHost || left.NewHost != "x2" {
		t.Errorf("expected host handover to x2 got: %+v", left)
	}
	room, err := g.Lookup(first.Code)
	if err != nil {
		t.Fatalf("first room gone: %v", err)
	}
	if host, _ := room.CurrentHost(); host != "x2" {
		t.Errorf("wrong host expected: x2 got: %q", host)
	}
	checkConsistency(t, g)
}

func TestRejoinSameRoomRefreshesName(t *testing.T) {
	g := newTestRegistry()
	first, _, _ := g.CreateRoom("x", "Xavier")

	snap, left, err := g.JoinRoom(first.Code, "x", "Xav")
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if left != nil {
		t.Errorf("rejoining the current room must not detach: %+v", left)
	}
	if len(snap.Players) != 1 || snap.Players[0] != "Xav" {
		t.Errorf("unexpected players: %v", snap.Players)
	}
	checkConsistency(t, g)
}

func TestRemoveUnknownConnection(t *testing.T) {
	g := newTestRegistry()
	if _, err := g.RemoveConnection("ghost"); err != ErrNotInAnyRoom {
		t.Errorf("expected ErrNotInAnyRoom got: %v", err)
	}
}

func TestUniqueCodesAcrossLiveRooms(t *testing.T) {
	g := newTestRegistry()
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		snap, _, err := g.CreateRoom(fmt.Sprintf("conn-%d", i), "Player")
		if err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
		if seen[snap.Code] {
			t.Fatalf("duplicate live code %q", snap.Code)
		}
		seen[snap.Code] = true
	}
}

func TestConcurrentJoins(t *testing.T) {
	g := newTestRegistry()
	snap, _, _ := g.CreateRoom("host", "Host")

	const joiners = 32
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			if _, _, err := g.JoinRoom(snap.Code, connID, fmt.Sprintf("Player %d", i)); err != nil {
				t.Errorf("join %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	room, err := g.Lookup(snap.Code)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if got := len(room.Names()); got != joiners+1 {
		t.Errorf("lost updates expected: %d members got: %d", joiners+1, got)
	}
	checkConsistency(t, g)
}
