package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/daniyar-kw/linkup/internal/config"
	"github.com/daniyar-kw/linkup/internal/database"
	"github.com/daniyar-kw/linkup/internal/handlers"
	"github.com/daniyar-kw/linkup/internal/realtime"
	"github.com/daniyar-kw/linkup/internal/repository"
	cronjobs "github.com/daniyar-kw/linkup/internal/scheduler"
	"github.com/daniyar-kw/linkup/internal/services"
	"github.com/daniyar-kw/linkup/pkg/logger"
	"github.com/daniyar-kw/linkup/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Realtime hub ---
	hub := realtime.NewHub()

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	postRepo := repository.NewPostRepository(db)

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, postRepo, hub)
	relationshipService := services.NewRelationshipService(userRepo, notificationService, hub)
	messageService := services.NewMessageService(messageRepo, userRepo, postRepo, notificationService, hub)
	postService := services.NewPostService(postRepo, notificationService, hub)

	// --- Handlers ---
	messageHandler := handlers.NewMessageHandler(messageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	followHandler := handlers.NewFollowHandler(relationshipService, hub.Presence())
	postHandler := handlers.NewPostHandler(postService)
	wsHandler := handlers.NewWSHandler(hub, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// WebSocket endpoint authenticates via token query parameter
	router.HandleFunc("/ws", wsHandler.ConnectHandler)

	// Message routes
	messageRoutes := router.PathPrefix("/messages").Subrouter()
	messageRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	messageRoutes.HandleFunc("/{recipientId}", messageHandler.SendMessageHandler).Methods("POST")
	messageRoutes.HandleFunc("/{userId}", messageHandler.GetHistoryHandler).Methods("GET")
	messageRoutes.HandleFunc("/{senderId}/read", messageHandler.MarkAllReadHandler).Methods("PUT")

	// Notification routes
	notificationRoutes := router.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notificationRoutes.HandleFunc("", notificationHandler.GetNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/read-all", notificationHandler.MarkAllReadHandler).Methods("PUT")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkAsReadHandler).Methods("PUT")

	// Follow routes
	userRoutes := router.PathPrefix("/users").Subrouter()
	userRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	userRoutes.HandleFunc("/{id}/follow", followHandler.FollowHandler).Methods("POST")
	userRoutes.HandleFunc("/{id}/unfollow", followHandler.UnfollowHandler).Methods("POST")
	userRoutes.HandleFunc("/{username}", followHandler.GetUserHandler).Methods("GET")

	// Repost routes
	postRoutes := router.PathPrefix("/posts").Subrouter()
	postRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	postRoutes.HandleFunc("/{id}/repost", postHandler.RepostHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}/repost", postHandler.UndoRepostHandler).Methods("DELETE")

	// Remaining API routes
	apiRoutes := router.PathPrefix("/api").Subrouter()
	apiRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	apiRoutes.HandleFunc("/messages/{messageId}/seen", messageHandler.MarkSeenHandler).Methods("PUT")
	apiRoutes.HandleFunc("/users/online", followHandler.OnlineUsersHandler).Methods("GET")

	chatRoutes := router.PathPrefix("/chats").Subrouter()
	chatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	chatRoutes.HandleFunc("", messageHandler.ListChatsHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Periodic notification maintenance
	cronjobs.StartNotificationCronJobs(notificationService)

	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
