package main

import (
	"encoding/json"
	"errors"
)

func UnmarshalJSON[T any](data []byte) T {
	var parsed T
	json.Unmarshal(data, &parsed)
	return parsed
}

var ErrUndefinedType = errors.New("incorrect type")

// Inbound events. Every frame carries a "type" discriminator; the payload
// fields live beside it.

type CreateRoomEvent struct {
	Name string `json:"name"`
}

type JoinRoomEvent struct {
	Name string `json:"name"`
	Room string `json:"room"`
}

type RejoinRoomEvent struct {
	Ticket string `json:"ticket"`
}

type LeaveRoomEvent struct{}

type GetRoomStateEvent struct {
	Room string `json:"room"`
}

type ChangeModeEvent struct {
	Room string `json:"room"`
	Mode string `json:"mode"`
}

type KickPlayerEvent struct {
	Room   string `json:"room"`
	Target string `json:"target"`
}

type StartGameEvent struct {
	Room string `json:"room"`
}

type EndGameEvent struct {
	Room string `json:"room"`
}

type Event interface {
	CreateRoomEvent | JoinRoomEvent | RejoinRoomEvent | LeaveRoomEvent |
		GetRoomStateEvent | ChangeModeEvent | KickPlayerEvent |
		StartGameEvent | EndGameEvent
}

// ParseEvent returns one of the structs from the Event interface.
func ParseEvent(msg []byte) (any, error) {
	header := UnmarshalJSON[struct {
		Type string `json:"type"`
	}](msg)
	var parsed any
	switch header.Type {
	case "create_room":
		parsed = UnmarshalJSON[CreateRoomEvent](msg)
	case "join_room":
		parsed = UnmarshalJSON[JoinRoomEvent](msg)
	case "rejoin_room":
		parsed = UnmarshalJSON[RejoinRoomEvent](msg)
	case "leave_room":
		parsed = LeaveRoomEvent{}
	case "get_room_state":
		parsed = UnmarshalJSON[GetRoomStateEvent](msg)
	case "change_mode":
		parsed = UnmarshalJSON[ChangeModeEvent](msg)
	case "kick_player":
		parsed = UnmarshalJSON[KickPlayerEvent](msg)
	case "start_game":
		parsed = UnmarshalJSON[StartGameEvent](msg)
	case "end_game":
		parsed = UnmarshalJSON[EndGameEvent](msg)
	default:
		return nil, ErrUndefinedType
	}
	return parsed, nil
}

// Outbound payloads, wrapped by the transport into {"type": ..., "data": ...}.

type RoomCreatedPayload struct {
	Success bool     `json:"success"`
	Room    string   `json:"room"`
	Players []string `json:"players"`
	Ticket  string   `json:"ticket,omitempty"`
}

type JoinedPayload struct {
	Success bool   `json:"success"`
	Room    string `json:"room"`
	Ticket  string `json:"ticket,omitempty"`
}

type PlayerJoinedPayload struct {
	Player  string   `json:"player"`
	Players []string `json:"players"`
}

type HostChangedPayload struct {
	NewHost string `json:"new_host"`
}

type PlayerLeftPayload struct {
	Player    string   `json:"player"`
	Remaining []string `json:"remaining"`
}

type ModeUpdatedPayload struct {
	Mode string `json:"mode"`
}

type KickedPayload struct{}

type RoomStatePayload struct {
	Room    string   `json:"room"`
	Players []string `json:"players"`
	State   string   `json:"state"`
	Mode    string   `json:"mode"`
}

type GameStartedPayload struct {
	Players []string `json:"players"`
}

type GameEndedPayload struct{}

type GameTickPayload struct {
	Tick    int      `json:"tick"`
	Players []string `json:"players"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
