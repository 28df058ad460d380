package main

import "time"

// GameLoop is the thin per-room game collaborator: it broadcasts a tick
// with the current member list on a fixed interval for as long as the
// room stays in the playing state. Flipping the room's state away from
// playing, or destroying the room, stops it.
type GameLoop struct {
	code      string
	registry  *Registry
	transport Transport
	interval  time.Duration
}

func NewGameLoop(code string, registry *Registry, transport Transport, interval time.Duration) *GameLoop {
	if interval <= 0 {
		interval = time.Second
	}
	return &GameLoop{code, registry, transport, interval}
}

func (l *GameLoop) Run() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	tick := 0
	for range ticker.C {
		room, err := l.registry.Lookup(l.code)
		if err != nil {
			return
		}
		if room.State() != StatePlaying {
			return
		}
		tick++
		l.transport.EmitTo(l.code, "game_tick", GameTickPayload{Tick: tick, Players: room.Names()})
	}
}
