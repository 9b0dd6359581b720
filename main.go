package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"productivity-app/backend/kanban-service/handlers"
	"productivity-app/backend/kanban-service/logging"
	"productivity-app/backend/kanban-service/middleware"
	"productivity-app/backend/kanban-service/services"
)

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Kanban Service...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	mongoURI := os.Getenv("MONGO_URI")
	mongoDBName := os.Getenv("MONGO_DB_NAME")
	if mongoURI == "" || mongoDBName == "" {
		logging.Logger.Fatal("Event ID: CONFIG_ERROR, Description: MONGO_URI and MONGO_DB_NAME must be set.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	defer client.Disconnect(ctx)

	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

	db := client.Database(mongoDBName)
	boards := db.Collection("kanban_boards")
	columns := db.Collection("kanban_columns")
	tasks := db.Collection("kanban_tasks")
	history := db.Collection("kanban_task_history")
	users := db.Collection("users")

	// History writes are best-effort; the breaker stops hammering a degraded
	// collection without ever failing the primary task mutation.
	historyBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TaskHistoryCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	historyService := services.NewHistoryService(history, tasks, columns, boards, historyBreaker)
	taskService := services.NewTaskService(tasks, columns, boards, historyService)
	columnService := services.NewColumnService(columns, tasks, boards)
	boardService := services.NewBoardService(boards, columns, tasks)
	userService := services.NewUserService(users)

	authHandler := handlers.NewAuthHandler(userService)
	boardHandler := handlers.NewBoardHandler(boardService)
	columnHandler := handlers.NewColumnHandler(columnService)
	taskHandler := handlers.NewTaskHandler(taskService)
	historyHandler := handlers.NewHistoryHandler(historyService)

	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods(http.MethodPost)

	kanban := r.PathPrefix("/api/kanban").Subrouter()
	kanban.Use(middleware.JWTAuthMiddleware)

	kanban.HandleFunc("/boards", boardHandler.ListBoards).Methods(http.MethodGet)
	kanban.HandleFunc("/boards", boardHandler.CreateBoard).Methods(http.MethodPost)
	kanban.HandleFunc("/boards/{id}", boardHandler.GetBoard).Methods(http.MethodGet)
	kanban.HandleFunc("/boards/{id}", boardHandler.UpdateBoard).Methods(http.MethodPut)
	kanban.HandleFunc("/boards/{id}", boardHandler.DeleteBoard).Methods(http.MethodDelete)

	kanban.HandleFunc("/columns", columnHandler.CreateColumn).Methods(http.MethodPost)
	kanban.HandleFunc("/columns/{id}", columnHandler.UpdateColumn).Methods(http.MethodPut)
	kanban.HandleFunc("/columns/{id}", columnHandler.DeleteColumn).Methods(http.MethodDelete)

	kanban.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	kanban.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	kanban.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)

	kanban.HandleFunc("/task-history", historyHandler.GetHistory).Methods(http.MethodGet)

	corsRouter := enableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", serverAddress)

	if err := http.ListenAndServe(serverAddress, corsRouter); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}
