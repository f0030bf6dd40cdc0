// File: internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iyunix/go-chatview/internal/middleware"
	"github.com/iyunix/go-chatview/internal/ratelimit"
	"github.com/iyunix/go-chatview/internal/services"
)

// RouterDeps bundles what NewRouter wires together.
type RouterDeps struct {
	Conversations *ConversationHandler
	Messages      *MessageHandler
	Pages         *PageHandler
	Logs          *LogHandler
	Logger        services.Logger
	// WriteLimiter, when set, throttles POST/PATCH/DELETE per client IP.
	WriteLimiter *ratelimit.MemoryRateLimiter
}

// NewRouter builds the storage service's HTTP surface.
func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.CORS)
	r.Use(middleware.RecoverPanic(d.Logger))
	r.Use(middleware.LoggingMiddleware(d.Logger))
	if d.WriteLimiter != nil {
		r.Use(middleware.RateLimitMiddleware(d.WriteLimiter, "writes", d.Logger, middleware.WriteMethods...))
	}

	// Preflight requests are answered by the CORS middleware.
	r.Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	// --- Operational Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/api/log", d.Logs.LogFrontendEvent).Methods("POST")

	// --- Pages & Templates ---
	r.HandleFunc("/", d.Pages.ShowIndexPage).Methods("GET")
	r.HandleFunc("/templates/{name}", d.Pages.ServeTemplate).Methods("GET")

	// --- Conversations ---
	r.HandleFunc("/conversations", d.Conversations.CreateConversation).Methods("POST")
	r.HandleFunc("/conversations", d.Conversations.ListConversations).Methods("GET")
	r.HandleFunc("/conversations/{id:[0-9]+}", d.Conversations.GetConversation).Methods("GET")
	r.HandleFunc("/conversations/{id:[0-9]+}", d.Conversations.UpdateConversation).Methods("PATCH")
	r.HandleFunc("/conversations/{id:[0-9]+}", d.Conversations.DeleteConversation).Methods("DELETE")
	r.HandleFunc("/conversations/{id:[0-9]+}/messages", d.Messages.CreateConversationMessage).Methods("POST")

	// --- Messages ---
	r.HandleFunc("/messages", d.Messages.CreateMessage).Methods("POST")
	r.HandleFunc("/messages", d.Messages.ListMessages).Methods("GET")
	r.HandleFunc("/messages/{id:[0-9]+}", d.Messages.GetMessage).Methods("GET")
	r.HandleFunc("/messages/{id:[0-9]+}", d.Messages.UpdateMessage).Methods("PATCH")
	r.HandleFunc("/messages/{id:[0-9]+}", d.Messages.DeleteMessage).Methods("DELETE")

	// --- Custom Error Handlers ---
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}
