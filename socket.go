package main

import (
	"encoding/json"
	"errors"
	"net"
	"sync"

	"github.com/gobwas/ws/wsutil"
	"github.com/google/uuid"
)

const socketSendBuffer = 16

// PlayerSocket is one client connection: a read loop feeding the
// coordinator and a writer goroutine draining the send channel, so
// broadcasts from many rooms never interleave partial frames.
type PlayerSocket struct {
	id        string
	conn      net.Conn
	send      chan []byte
	closeOnce sync.Once
}

func NewPlayerSocket(conn net.Conn) *PlayerSocket {
	return &PlayerSocket{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, socketSendBuffer),
	}
}

func (s *PlayerSocket) ID() string {
	return s.id
}

// Enqueue hands a frame to the writer. A client that stopped draining its
// socket loses frames instead of stalling every room it shares a group
// with.
func (s *PlayerSocket) Enqueue(frame []byte) bool {
	select {
	case s.send <- frame:
		return true
	default:
		return false
	}
}

func (s *PlayerSocket) WriteLoop() {
	for frame := range s.send {
		if err := wsutil.WriteServerText(s.conn, frame); err != nil {
			return
		}
	}
}

// ReadLoop blocks until the connection drops, then runs disconnect
// cleanup. Frames with an unknown type are skipped, not fatal.
func (s *PlayerSocket) ReadLoop(coordinator *Coordinator) {
	coordinator.HandleConnect(s.id)
	for {
		msg, err := wsutil.ReadClientText(s.conn)
		if err != nil {
			break
		}
		ev, err := ParseEvent(msg)
		if err != nil {
			if errors.Is(err, ErrUndefinedType) {
				continue
			}
			break
		}
		coordinator.Dispatch(s.id, ev)
	}
	coordinator.HandleDisconnect(s.id)
}

func (s *PlayerSocket) Close() {
	s.closeOnce.Do(func() {
		close(s.send)
		s.conn.Close()
	})
}

type outboundFrame struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

func encodeFrame(event string, payload any) []byte {
	encoded, _ := json.Marshal(outboundFrame{Type: event, Data: payload})
	return encoded
}
