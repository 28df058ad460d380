package main

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

type RoomLogger struct {
	zerolog zerolog.Logger
}

func GetRoomLogger(connID string, roomCode string) RoomLogger {
	return RoomLogger{log.With().Str("conn-id", connID).Str("room-code", roomCode).Logger()}
}

func (l RoomLogger) JoinedRoom(name string) {
	l.zerolog.Info().Str("player", name).Msg("Joined room")
}

func (l RoomLogger) LeftRoom() {
	l.zerolog.Info().Msg("Left room")
}

func (l RoomLogger) HostChanged(newHost string) {
	l.zerolog.Info().Str("new-host", newHost).Msg("Host changed")
}

func (l RoomLogger) Kicked(target string) {
	l.zerolog.Info().Str("target", target).Msg("Kicked player")
}

func (l RoomLogger) RemovingRoom() {
	l.zerolog.Info().Msg("Removing room")
}

func LogCreatedRoom(roomCode string, host string) {
	log.Info().Str("room-code", roomCode).Str("host", host).Msg("Created")
}

func LogPlayerConnected(connID string) {
	log.Info().Str("conn-id", connID).Msg("Player connected")
}

func LogPlayerDisconnected(connID string) {
	log.Info().Str("conn-id", connID).Msg("Player disconnected")
}

func LogGameStarted(roomCode string) {
	log.Info().Str("room-code", roomCode).Msg("Game started")
}

func LogGameEnded(roomCode string) {
	log.Info().Str("room-code", roomCode).Msg("Game ended")
}

func LogStartedServer(port string) {
	log.Info().Msgf("Starting server on port %v", port)
}

func LogErrorWhileUpgradingHTTP(err error) {
	log.Error().Err(err).Msg("Error while upgrading HTTP")
}

func LogAllocationFailed(err error) {
	log.Error().Err(err).Msg("Room code allocation failed")
}
