package main

import "net/http"

func main() {
	config := MustLoadConfig()
	allocator := NewCodeAllocator(config.CodeLength)
	registry := NewRegistry(allocator)
	hub := NewHub()
	tickets := NewRejoinTickets(config.JwtSecret)
	coordinator := NewCoordinator(registry, hub, tickets, config.TickInterval)

	handler := NewHTTPServer(hub, registry, coordinator, config.AllowedOrigins)
	LogStartedServer(config.Port)
	http.ListenAndServe(":"+config.Port, handler)
}
