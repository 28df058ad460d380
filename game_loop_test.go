package main

import (
	"testing"
	"time"
)

func TestGameLoopStopsWhenGameEnds(t *testing.T) {
	registry := newTestRegistry()
	transport := newFakeTransport()
	snap, _, _ := registry.CreateRoom("conn-a", "Alice")
	room, _ := registry.Lookup(snap.Code)
	room.Transition(StatePlaying)

	loop := NewGameLoop(snap.Code, registry, transport, 2*time.Millisecond)
	done := make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()

	deadline := time.After(time.Second)
	for len(transport.eventsFor(snap.Code)) == 0 {
		select {
		case <-deadline:
			t.Fatal("no game_tick broadcast before deadline")
		case <-time.After(time.Millisecond):
		}
	}
	ticks := transport.eventsFor(snap.Code)
	if ticks[0].Event != "game_tick" {
		t.Errorf("wrong event expected: game_tick got: %q", ticks[0].Event)
	}

	room.Transition(StateEnded)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after game ended")
	}
}

func TestGameLoopStopsWhenRoomDestroyed(t *testing.T) {
	registry := newTestRegistry()
	transport := newFakeTransport()
	snap, _, _ := registry.CreateRoom("conn-a", "Alice")
	room, _ := registry.Lookup(snap.Code)
	room.Transition(StatePlaying)

	loop := NewGameLoop(snap.Code, registry, transport, 2*time.Millisecond)
	done := make(chan struct{})
	go func() {
		loop.Run()
		close(done)
	}()

	registry.RemoveConnection("conn-a")
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after room destruction")
	}
}
