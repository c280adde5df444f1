package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridaylabs/friday/internal/message"
	"github.com/fridaylabs/friday/internal/profile"
	httptransport "github.com/fridaylabs/friday/internal/transport/http"
	"github.com/fridaylabs/friday/internal/voice"
)

type stubService struct {
	commands []string
	cleared  bool
	selected string
	busy     bool
}

func (s *stubService) Command(_ context.Context, text string) (message.Result, error) {
	s.commands = append(s.commands, text)
	return message.Result{Input: text, Reply: "Opening youtube...", Spoken: true}, nil
}

func (s *stubService) Transcript() []message.TranscriptEntry {
	return []message.TranscriptEntry{
		{Speaker: message.SpeakerUser, Text: "open youtube"},
		{Speaker: message.SpeakerAssistant, Text: "Opening youtube..."},
	}
}

func (s *stubService) ClearTranscript() (string, error) {
	s.cleared = true
	return "Chat cleared successfully, boss. My memory has been reset.", nil
}

func (s *stubService) Voices() ([]voice.Descriptor, string) {
	return []voice.Descriptor{{Name: "A", Language: "en-US"}}, "A"
}

func (s *stubService) SelectVoice(name string) error {
	if name != "A" {
		return profile.ErrNotFound
	}
	s.selected = name
	return nil
}

func (s *stubService) Busy() bool { return s.busy }

func serve(t *testing.T, svc *stubService, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	tr := httptransport.New(0)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	tr.Handler(svc).ServeHTTP(rec, req)
	return rec
}

func TestCommandEndpoint(t *testing.T) {
	svc := &stubService{}
	rec := serve(t, svc, http.MethodPost, "/command", `{"text":"open youtube"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"open youtube"}, svc.commands)

	var res message.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, "Opening youtube...", res.Reply)
	assert.NotEmpty(t, res.ID)
}

func TestCommandEndpointRejectsEmptyText(t *testing.T) {
	svc := &stubService{}

	rec := serve(t, svc, http.MethodPost, "/command", `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, svc, http.MethodPost, "/command", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, svc.commands)
}

func TestTranscriptEndpoint(t *testing.T) {
	rec := serve(t, &stubService{}, http.MethodGet, "/transcript", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []message.TranscriptEntry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, message.SpeakerAssistant, entries[1].Speaker)
}

func TestTranscriptClearEndpoint(t *testing.T) {
	svc := &stubService{}
	rec := serve(t, svc, http.MethodPost, "/transcript/clear", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.cleared)
}

func TestVoicesEndpoint(t *testing.T) {
	rec := serve(t, &stubService{}, http.MethodGet, "/voices", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Voices   []voice.Descriptor `json:"voices"`
		Selected string             `json:"selected"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out.Voices, 1)
	assert.Equal(t, "A", out.Selected)
}

func TestSelectVoiceEndpoint(t *testing.T) {
	svc := &stubService{}

	rec := serve(t, svc, http.MethodPost, "/voice", `{"name":"A"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A", svc.selected)

	rec = serve(t, svc, http.MethodPost, "/voice", `{"name":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	rec := serve(t, &stubService{busy: true}, http.MethodGet, "/status", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Busy bool `json:"busy"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.True(t, out.Busy)
}
