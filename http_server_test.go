package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRoomStateEndpoint(t *testing.T) {
	registry := newTestRegistry()
	hub := NewHub()
	coordinator := NewCoordinator(registry, hub, NewRejoinTickets("secret"), time.Hour)
	handler := NewHTTPServer(hub, registry, coordinator, []string{"*"})

	snap, _, _ := registry.CreateRoom("conn-a", "Alice")

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest("GET", "/room/"+snap.Code, nil))
	if res.Code != http.StatusOK {
		t.Fatalf("wrong status expected: 200 got: %d", res.Code)
	}
	var state RoomStatePayload
	if err := json.Unmarshal(res.Body.Bytes(), &state); err != nil {
		t.Fatalf("incorrect json sent: %v", err)
	}
	if state.Room != snap.Code || state.State != "waiting" {
		t.Errorf("unexpected payload: %+v", state)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest("GET", "/room/NOSUCH", nil))
	if res.Code != http.StatusNotFound {
		t.Errorf("wrong status expected: 404 got: %d", res.Code)
	}
}
