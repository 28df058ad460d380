package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const rejoinTicketLifetime = time.Minute * 2

var ErrInvalidTicket = errors.New("invalid rejoin ticket")

// RejoinTickets issues short-lived signed tickets so a client whose
// connection dropped can get back into its room without retyping the code.
type RejoinTickets struct {
	secret string
}

func NewRejoinTickets(secret string) *RejoinTickets {
	return &RejoinTickets{secret}
}

func (r RejoinTickets) Issue(roomCode, playerName string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"roomCode":   roomCode,
		"playerName": playerName,
		"exp":        jwt.NewNumericDate(time.Now().Add(rejoinTicketLifetime)),
	})
	return token.SignedString([]byte(r.secret))
}

func (r RejoinTickets) Verify(ticket string) (roomCode, playerName string, err error) {
	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(r.secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", ErrInvalidTicket
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidTicket
	}
	roomCode, _ = claims["roomCode"].(string)
	playerName, _ = claims["playerName"].(string)
	if roomCode == "" || playerName == "" {
		return "", "", ErrInvalidTicket
	}
	return roomCode, playerName, nil
}
