package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/gobwas/ws"
)

type HTTPHandler struct {
	Hub         *Hub
	Registry    *Registry
	Coordinator *Coordinator
}

func NewHTTPServer(hub *Hub, registry *Registry, coordinator *Coordinator, allowedOrigins []string) http.Handler {
	httpHandler := HTTPHandler{hub, registry, coordinator}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET"},
		AllowCredentials: false,
	}))
	r.Use(middleware.RealIP)
	r.Use(httprate.Limit(60, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP, httprate.KeyByEndpoint)))
	r.Use(middleware.Heartbeat("/"))

	r.Get("/ws", httpHandler.websocket())
	r.Get("/room/{roomCode}", httpHandler.getRoomState())
	return r
}

func (h HTTPHandler) websocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, _, _, err := ws.UpgradeHTTP(r, w)
		if err != nil {
			LogErrorWhileUpgradingHTTP(err)
			return
		}
		socket := NewPlayerSocket(conn)
		h.Hub.Register(socket)
		go socket.WriteLoop()
		go func() {
			socket.ReadLoop(h.Coordinator)
			h.Hub.Unregister(socket.ID())
			socket.Close()
		}()
	}
}

func (h HTTPHandler) getRoomState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "roomCode")
		room, err := h.Registry.Lookup(code)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		snap := room.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RoomStatePayload{
			Room:    snap.Code,
			Players: snap.Players,
			State:   string(snap.State),
			Mode:    snap.Mode,
		})
	}
}
