package main

import (
	"errors"
	"time"
)

// Transport is the capability the coordinator needs from the connection
// layer: group membership bookkeeping and message delivery. Target is
// either a connection id or a room code.
type Transport interface {
	JoinGroup(connID, code string)
	LeaveGroup(connID, code string)
	EmitTo(target string, event string, payload any)
}

// Policy-level errors; the storage layers know nothing about identities.
var (
	ErrUnauthorized   = errors.New("requester is not the host")
	ErrPlayerNotFound = errors.New("player is not in the room")
)

// errorMessage translates the error taxonomy into the reply sent to the
// requesting connection. Everything here is recoverable; nothing crashes
// the process or touches other rooms.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, ErrRoomNotFound):
		return "Room not found."
	case errors.Is(err, ErrNotInAnyRoom):
		return "You are not in a room."
	case errors.Is(err, ErrUnauthorized):
		return "Only the host can do that."
	case errors.Is(err, ErrPlayerNotFound):
		return "Player not found."
	case errors.Is(err, ErrInvalidTransition):
		return "Invalid game state."
	case errors.Is(err, ErrAllocationExhausted):
		return "Could not create a room, try again later."
	case errors.Is(err, ErrInvalidTicket):
		return "Invalid rejoin ticket."
	}
	return "Something went wrong."
}

// Coordinator validates inbound events against registry state, applies
// the room/registry operation and emits the resulting replies and
// broadcasts. Locks are released before anything is emitted; every
// broadcast works from data copied out of the registry.
type Coordinator struct {
	registry     *Registry
	transport    Transport
	tickets      *RejoinTickets
	tickInterval time.Duration
}

func NewCoordinator(registry *Registry, transport Transport, tickets *RejoinTickets, tickInterval time.Duration) *Coordinator {
	return &Coordinator{registry, transport, tickets, tickInterval}
}

func (c *Coordinator) Dispatch(connID string, ev any) {
	switch e := ev.(type) {
	case CreateRoomEvent:
		c.HandleCreateRoom(connID, e.Name)
	case JoinRoomEvent:
		c.HandleJoinRoom(connID, e.Name, e.Room)
	case RejoinRoomEvent:
		c.HandleRejoinRoom(connID, e.Ticket)
	case LeaveRoomEvent:
		c.HandleLeaveRoom(connID)
	case GetRoomStateEvent:
		c.HandleGetRoomState(connID, e.Room)
	case ChangeModeEvent:
		c.HandleChangeMode(connID, e.Room, e.Mode)
	case KickPlayerEvent:
		c.HandleKickPlayer(connID, e.Room, e.Target)
	case StartGameEvent:
		c.HandleStartGame(connID, e.Room)
	case EndGameEvent:
		c.HandleEndGame(connID, e.Room)
	}
}

func (c *Coordinator) replyError(connID string, err error) {
	c.transport.EmitTo(connID, "error", ErrorPayload{Message: errorMessage(err)})
}

func (c *Coordinator) HandleConnect(connID string) {
	LogPlayerConnected(connID)
}

// HandleDisconnect runs the full cleanup even when the underlying
// transport is already gone; removal is not cancellable.
func (c *Coordinator) HandleDisconnect(connID string) {
	LogPlayerDisconnected(connID)
	c.detach(connID)
}

func (c *Coordinator) HandleLeaveRoom(connID string) {
	if !c.detach(connID) {
		c.replyError(connID, ErrNotInAnyRoom)
	}
}

func (c *Coordinator) detach(connID string) bool {
	res, err := c.registry.RemoveConnection(connID)
	if err != nil {
		return false
	}
	c.announceLeave(connID, res)
	return true
}

// announceLeave tells the survivors about a departure that already
// happened in the registry. The host_changed broadcast precedes
// player_left so clients never observe a stale host.
func (c *Coordinator) announceLeave(connID string, res LeaveResult) {
	logger := GetRoomLogger(connID, res.Code)
	c.transport.LeaveGroup(connID, res.Code)
	if res.Destroyed {
		logger.RemovingRoom()
		return
	}
	logger.LeftRoom()
	logger.HostChanged(res.NewHost)
	c.transport.EmitTo(res.Code, "host_changed", HostChangedPayload{NewHost: res.NewHost})
	c.transport.EmitTo(res.Code, "player_left", PlayerLeftPayload{Player: res.PlayerName, Remaining: res.Remaining})
}

func (c *Coordinator) HandleCreateRoom(connID, name string) {
	snap, left, err := c.registry.CreateRoom(connID, name)
	if err != nil {
		LogAllocationFailed(err)
		c.replyError(connID, err)
		return
	}
	if left != nil {
		c.announceLeave(connID, *left)
	}
	LogCreatedRoom(snap.Code, name)
	c.transport.JoinGroup(connID, snap.Code)
	ticket, _ := c.tickets.Issue(snap.Code, name)
	c.transport.EmitTo(connID, "room_created", RoomCreatedPayload{
		Success: true,
		Room:    snap.Code,
		Players: snap.Players,
		Ticket:  ticket,
	})
}

func (c *Coordinator) HandleJoinRoom(connID, name, code string) {
	snap, left, err := c.registry.JoinRoom(code, connID, name)
	if err != nil {
		c.replyError(connID, err)
		return
	}
	if left != nil {
		c.announceLeave(connID, *left)
	}
	GetRoomLogger(connID, snap.Code).JoinedRoom(name)
	c.transport.JoinGroup(connID, snap.Code)
	ticket, _ := c.tickets.Issue(snap.Code, name)
	c.transport.EmitTo(connID, "joined", JoinedPayload{Success: true, Room: snap.Code, Ticket: ticket})
	c.transport.EmitTo(snap.Code, "player_joined", PlayerJoinedPayload{Player: name, Players: snap.Players})
}

func (c *Coordinator) HandleRejoinRoom(connID, ticket string) {
	code, name, err := c.tickets.Verify(ticket)
	if err != nil {
		c.replyError(connID, err)
		return
	}
	c.HandleJoinRoom(connID, name, code)
}

func (c *Coordinator) HandleGetRoomState(connID, code string) {
	room, err := c.registry.Lookup(code)
	if err != nil {
		c.replyError(connID, err)
		return
	}
	snap := room.Snapshot()
	c.transport.EmitTo(connID, "room_state", RoomStatePayload{
		Room:    snap.Code,
		Players: snap.Players,
		State:   string(snap.State),
		Mode:    snap.Mode,
	})
}

func (c *Coordinator) requireHost(connID, code string) (*Room, error) {
	room, err := c.registry.Lookup(code)
	if err != nil {
		return nil, err
	}
	host, ok := room.CurrentHost()
	if !ok || host != connID {
		return nil, ErrUnauthorized
	}
	return room, nil
}

func (c *Coordinator) HandleChangeMode(connID, code, mode string) {
	room, err := c.requireHost(connID, code)
	if err != nil {
		c.replyError(connID, err)
		return
	}
	if err := room.SetMetadata("mode", mode); err != nil {
		c.replyError(connID, err)
		return
	}
	c.transport.EmitTo(room.Code(), "mode_updated", ModeUpdatedPayload{Mode: mode})
}

func (c *Coordinator) HandleKickPlayer(connID, code, target string) {
	room, err := c.requireHost(connID, code)
	if err != nil {
		c.replyError(connID, err)
		return
	}
	if !room.HasMember(target) {
		c.replyError(connID, ErrPlayerNotFound)
		return
	}
	c.transport.EmitTo(target, "kicked", KickedPayload{})
	res, err := c.registry.RemoveConnection(target)
	if err != nil {
		// Target raced us out of the room between the check and the removal.
		c.replyError(connID, ErrPlayerNotFound)
		return
	}
	logger := GetRoomLogger(connID, res.Code)
	logger.Kicked(target)
	c.transport.LeaveGroup(target, res.Code)
	if res.Destroyed {
		return
	}
	if res.WasHost {
		logger.HostChanged(res.NewHost)
		c.transport.EmitTo(res.Code, "host_changed", HostChangedPayload{NewHost: res.NewHost})
	}
	c.transport.EmitTo(res.Code, "player_left", PlayerLeftPayload{Player: res.PlayerName, Remaining: res.Remaining})
}

func (c *Coordinator) HandleStartGame(connID, code string) {
	room, err := c.requireHost(connID, code)
	if err != nil {
		c.replyError(connID, err)
		return
	}
	if err := room.Transition(StatePlaying); err != nil {
		c.replyError(connID, err)
		return
	}
	snap := room.Snapshot()
	LogGameStarted(snap.Code)
	c.transport.EmitTo(snap.Code, "game_started", GameStartedPayload{Players: snap.Players})
	loop := NewGameLoop(snap.Code, c.registry, c.transport, c.tickInterval)
	go loop.Run()
}

func (c *Coordinator) HandleEndGame(connID, code string) {
	room, err := c.requireHost(connID, code)
	if err != nil {
		c.replyError(connID, err)
		return
	}
	if err := room.Transition(StateEnded); err != nil {
		c.replyError(connID, err)
		return
	}
	LogGameEnded(room.Code())
	c.transport.EmitTo(room.Code(), "game_ended", GameEndedPayload{})
}
