package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"campus-portal/internal/auth"
	"campus-portal/internal/cache"
	"campus-portal/internal/config"
	"campus-portal/internal/database"
	"campus-portal/internal/handlers"
	"campus-portal/internal/notify"
	"campus-portal/internal/services"
	"campus-portal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresDB(cfg.Database.URL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize cache; the portal runs fine without it
	portalCache := openCache(cfg)
	if portalCache != nil {
		defer portalCache.Close()
	}

	// Initialize notification hub
	hub := notify.NewHub()
	go hub.Run()
	defer hub.Shutdown()

	// Initialize services
	authService := auth.NewService(db, cfg)
	portalService := services.NewPortalService(db, portalCache, hub)

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(authService)
	portalHandlers := handlers.NewPortalHandlers(portalService, authService)
	wsHandlers := handlers.NewWebSocketHandlers(hub, cfg.Notify.SendBuffer)

	// Setup routes
	mux := http.NewServeMux()
	setupRoutes(mux, authHandlers, portalHandlers, wsHandlers)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("Portal API started on http://localhost%s", cfg.Server.Port)
	logger.Info("Notification endpoint: ws://localhost%s/ws", cfg.Server.Port)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}

func openCache(cfg *config.Config) *cache.Cache {
	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable at %s, running without cache: %v", cfg.Redis.Addr, err)
		client.Close()
		return nil
	}

	return cache.New(client, "portal:", cfg.Redis.CacheTTL)
}

func setupRoutes(mux *http.ServeMux, authHandlers *handlers.AuthHandlers, portalHandlers *handlers.PortalHandlers, wsHandlers *handlers.WebSocketHandlers) {
	// Auth routes
	mux.HandleFunc("/api/student/login", authHandlers.StudentLogin)
	mux.HandleFunc("/api/faculty/login", authHandlers.FacultyLogin)
	mux.HandleFunc("/api/admin/login", authHandlers.AdminLogin)

	// Announcement routes
	mux.HandleFunc("/api/announcements", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			portalHandlers.ListAnnouncements(w, r)
		case http.MethodPost:
			portalHandlers.CreateAnnouncement(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/announcements/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			portalHandlers.DeleteAnnouncement(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	// Academic routes
	mux.HandleFunc("/api/attendance", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			portalHandlers.MyAttendance(w, r)
		case http.MethodPost:
			portalHandlers.MarkAttendance(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/marks", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			portalHandlers.MyMarks(w, r)
		case http.MethodPost:
			portalHandlers.RecordMarks(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Achievement routes
	mux.HandleFunc("/api/achievements", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			portalHandlers.ListAchievements(w, r)
		case http.MethodPost:
			portalHandlers.CreateAchievement(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Directory routes
	mux.HandleFunc("/api/faculty", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			portalHandlers.ListFaculty(w, r)
		case http.MethodPost:
			portalHandlers.CreateFaculty(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/faculty/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			portalHandlers.GetFaculty(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	mux.HandleFunc("/api/students", portalHandlers.ListStudents)
	mux.HandleFunc("/api/subjects", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			portalHandlers.ListSubjects(w, r)
		case http.MethodPost:
			portalHandlers.CreateSubject(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Notification channel
	mux.HandleFunc("/ws", wsHandlers.HandleWebSocket)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Keep the logs quiet for websocket pings
		if !strings.HasPrefix(r.URL.Path, "/ws") {
			logger.Debug("%s %s", r.Method, r.URL.Path)
		}

		next.ServeHTTP(w, r)
	})
}
