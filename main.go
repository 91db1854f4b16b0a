package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"slideboard/internal/annotation"
	"slideboard/internal/config"
	"slideboard/internal/handlers"
	"slideboard/internal/message"
	"slideboard/internal/middleware"
	"slideboard/internal/recorder"
	"slideboard/internal/room"
	"slideboard/internal/transport"
	"slideboard/internal/user"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := transport.NewHub(cfg.Limits.MaxRoomSize)
	rooms := room.NewManager(hub, room.Options{
		WhiteboardEnabled: cfg.Room.WhiteboardEnabled,
		ListenerQueueSize: cfg.Room.ListenerQueueSize,
	})

	parser := message.NewParser()
	sanitizer := annotation.NewSanitizer()
	limits := middleware.NewLimits(
		cfg.Limits.MaxMessageSize,
		cfg.Limits.MaxObjectDepth,
		cfg.Limits.MaxObjectElements,
	)

	sessionMgr := user.NewSessionManager(cfg.Limits.MessagesPerSecond, cfg.Limits.BurstSize, cfg.Session.TTL)
	auth := transport.NewAuthenticator(sessionMgr, parser)
	router := handlers.NewMessageRouter(parser, sanitizer, limits, rooms, hub)

	var (
		store   *recorder.Store
		factory handlers.ListenerFactory
	)
	if cfg.Recording.Enabled {
		var err error
		store, err = recorder.New(cfg.Recording.DBPath)
		if err != nil {
			log.Fatalf("Failed to open recording database: %v", err)
		}
		factory = recorder.Factory(store)
	}

	meetingHandler := handlers.NewMeetingHandler(rooms, hub, sessionMgr, factory, cfg.Server.ServiceKey)
	wsHandler := transport.NewHandler(transport.Options{
		AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		SendBuffer:      cfg.WebSocket.SendBuffer,
		AuthTimeout:     cfg.WebSocket.AuthTimeout,
	}, hub, rooms, router, auth, sessionMgr, limits)

	ipLimiter := middleware.NewIPRateLimit(cfg.IPLimit.ConnectsPerMinute, cfg.IPLimit.Burst, cfg.IPLimit.IdleTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", ipLimiter.Middleware(wsHandler.HandleWebSocket))
	mux.HandleFunc("/api/meetings/start", meetingHandler.HandleStart)
	mux.HandleFunc("/api/meetings/stop", meetingHandler.HandleStop)
	mux.HandleFunc("/health", meetingHandler.HandleHealth)

	go cleanup(ctx, cfg, sessionMgr, ipLimiter, store)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Whiteboard server started on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	rooms.Shutdown()
	if store != nil {
		if err := store.Close(); err != nil {
			log.Printf("Failed to close recording database: %v", err)
		}
	}
}

// cleanup periodically expires idle sessions, idle IP limiters and, when a
// retention is configured, old recorded events.
func cleanup(ctx context.Context, cfg *config.Config, sessions *user.SessionManager, ips *middleware.IPRateLimit, store *recorder.Store) {
	ticker := time.NewTicker(cfg.Server.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Cleanup()
			ips.Cleanup()

			if store == nil || cfg.Recording.Retention <= 0 {
				continue
			}
			n, err := store.DeleteBefore(time.Now().Add(-cfg.Recording.Retention))
			if err != nil {
				log.Printf("[Recorder] retention sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("[Recorder] removed %d expired events", n)
			}
		}
	}
}
