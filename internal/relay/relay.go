// Package relay implements the conversational-AI relay process.
//
// The relay is a pure pass-through between the assistant and the upstream
// chat provider: no conversation state, no logic beyond error translation.
// Degraded states answer HTTP 200 with an explanatory reply so the assistant
// always has a sentence to speak; only an upstream failure is a 500, and even
// then the body is a fixed reply, so stack traces and credentials never reach
// the client.
package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Fixed reply strings, one per degraded state.
const (
	replyNoCredential = "OPENAI_KEY is not set in the relay environment variables."
	replyEmptyMessage = "Please type something."
	replyNoCompletion = "No reply from AI."
	replyUpstreamErr  = "Something went wrong on the server."

	systemPrompt = "You are FRIDAY, a friendly AI assistant. Answer clearly and briefly."
)

// Server answers POST /api/chat.
type Server struct {
	client *openai.Client // nil when no credential is configured
	model  string
	server *http.Server
}

// Option configures a Server.
type Option func(*openai.ClientConfig)

// WithBaseURL points the upstream client at a different endpoint. Tests use
// this to stub the provider.
func WithBaseURL(url string) Option {
	return func(cfg *openai.ClientConfig) { cfg.BaseURL = url }
}

// New creates a relay server. An empty apiKey is not an error; the relay
// runs and answers every chat request with the credential-missing reply.
func New(apiKey, model string, opts ...Option) *Server {
	s := &Server{model: model}
	if apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		for _, opt := range opts {
			opt(&cfg)
		}
		s.client = openai.NewClientWithConfig(cfg)
	}
	return s
}

// Handler returns the relay's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("FRIDAY AI backend is running"))
	})
	mux.HandleFunc("POST /api/chat", s.handleChat)
	return mux
}

// ListenAndServe runs the relay until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("relay listening", "port", port, "model", s.model, "credential_configured", s.client != nil)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("relay: %w", err)
	}
	return nil
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	// An unreadable body is treated like an empty message. The client still
	// gets a reply to speak.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if s.client == nil {
		writeReply(w, http.StatusOK, replyNoCredential)
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeReply(w, http.StatusOK, replyEmptyMessage)
		return
	}

	reply, err := s.complete(r.Context(), req.Message)
	if err != nil {
		slog.Error("upstream chat call failed", "error", err)
		writeReply(w, http.StatusInternalServerError, replyUpstreamErr)
		return
	}

	writeReply(w, http.StatusOK, reply)
}

func (s *Server) complete(ctx context.Context, userText string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return replyNoCompletion, nil
	}
	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return replyNoCompletion, nil
	}
	return reply, nil
}

func writeReply(w http.ResponseWriter, status int, reply string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"reply": reply})
}
