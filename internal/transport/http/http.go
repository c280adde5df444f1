// Package http implements the HTTP transport for friday.
//
// This is the surface a browser or thin client talks to: it submits
// recognized or typed text, reads back the transcript, and manages voices.
// Speech output happens on the daemon side; the transport only carries text.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/fridaylabs/friday/internal/transport"
)

// Transport implements transport.Transport over HTTP.
type Transport struct {
	port   int
	server *http.Server
}

// New creates a new HTTP transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "http" }

// Listen starts the HTTP server and routes incoming requests to the service.
func (t *Transport) Listen(ctx context.Context, svc transport.Service) error {
	t.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", t.port),
		Handler:           t.Handler(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("http transport listening", "port", t.port)

	go func() {
		<-ctx.Done()
		slog.Info("http transport shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.server.Shutdown(shutdownCtx)
	}()

	if err := t.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("http listen: %w", err)
	}
	return nil
}

// Handler returns the transport's HTTP handler over the given service.
func (t *Transport) Handler(svc transport.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /command", func(w http.ResponseWriter, r *http.Request) {
		t.handleCommand(w, r, svc)
	})

	mux.HandleFunc("GET /transcript", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, svc.Transcript())
	})

	mux.HandleFunc("POST /transcript/clear", func(w http.ResponseWriter, r *http.Request) {
		reply, err := svc.ClearTranscript()
		if err != nil {
			slog.Error("transcript clear failed", "error", err)
			http.Error(w, "clearing transcript", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
	})

	mux.HandleFunc("GET /voices", func(w http.ResponseWriter, r *http.Request) {
		available, selected := svc.Voices()
		writeJSON(w, http.StatusOK, map[string]any{
			"voices":   available,
			"selected": selected,
		})
	})

	mux.HandleFunc("POST /voice", func(w http.ResponseWriter, r *http.Request) {
		t.handleSelectVoice(w, r, svc)
	})

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"busy": svc.Busy()})
	})

	// Swagger UI for the generated OpenAPI docs.
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	return mux
}

// handleCommand processes a POST /command request.
//
// @Summary     Dispatch a user command
// @Description Accepts one line of typed or recognized text, routes it through
// @Description the command dispatcher, and returns the assistant's reply.
// @Tags        command
// @Accept      json
// @Produce     json
// @Param       command  body      commandRequest  true  "User input"
// @Success     200  {object}  message.Result  "Assistant reply"
// @Failure     400  {string}  string  "Invalid request body"
// @Failure     500  {string}  string  "Internal processing error"
// @Router      /command [post]
func (t *Transport) handleCommand(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	result, err := svc.Command(r.Context(), req.Text)
	if err != nil {
		slog.Error("command failed", "error", err)
		http.Error(w, "command error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	result.ID = uuid.NewString()

	writeJSON(w, http.StatusOK, result)
}

// handleSelectVoice processes a POST /voice request.
//
// @Summary     Select the session voice
// @Tags        voice
// @Accept      json
// @Produce     json
// @Param       voice  body      voiceRequest  true  "Voice name"
// @Success     200  {object}  map[string]string
// @Failure     404  {string}  string  "Unknown voice"
// @Router      /voice [post]
func (t *Transport) handleSelectVoice(w http.ResponseWriter, r *http.Request, svc transport.Service) {
	var req voiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := svc.SelectVoice(req.Name); err != nil {
		http.Error(w, "unknown voice: "+req.Name, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"selected": req.Name})
}

// Close gracefully shuts down the HTTP server.
func (t *Transport) Close() error {
	if t.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return t.server.Shutdown(ctx)
	}
	return nil
}

type commandRequest struct {
	Text string `json:"text"`
}

type voiceRequest struct {
	Name string `json:"name"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
