// Package app wires the friday subsystems into a running assistant.
//
// App owns the session value (the active user, the cached voice list and the
// selected voice) and guards it with a mutex. Dispatch itself runs outside
// the lock: the session is copied out before a command and the updated value
// stored afterwards, so a slow remote adapter never blocks the next command.
// The accepted consequence is that two in-flight commands may finish out of
// input order.
package app

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fridaylabs/friday/internal/dispatch"
	"github.com/fridaylabs/friday/internal/message"
	"github.com/fridaylabs/friday/internal/profile"
	"github.com/fridaylabs/friday/internal/speech"
	"github.com/fridaylabs/friday/internal/transcript"
	"github.com/fridaylabs/friday/internal/voice"
)

// App is the assistant behind the transport.
type App struct {
	dispatcher *dispatch.Dispatcher
	profiles   *profile.Store
	log        *transcript.Log
	controller *speech.Controller
	engine     speech.Engine

	mu   sync.Mutex
	sess voice.Session

	busy atomic.Int32
}

// New creates the app shell. SetDispatcher must be called before Start; the
// dispatcher needs the app as its Presenter, so the two are wired in stages.
func New(profiles *profile.Store, log *transcript.Log, controller *speech.Controller, engine speech.Engine) *App {
	return &App{
		profiles:   profiles,
		log:        log,
		controller: controller,
		engine:     engine,
	}
}

// SetDispatcher attaches the command dispatcher.
func (a *App) SetDispatcher(d *dispatch.Dispatcher) {
	a.dispatcher = d
}

// SetBusy implements dispatch.Presenter. Nested adapter calls stack.
func (a *App) SetBusy(busy bool) {
	if busy {
		a.busy.Add(1)
	} else {
		a.busy.Add(-1)
	}
}

// Busy reports whether any remote adapter call is outstanding.
func (a *App) Busy() bool {
	return a.busy.Load() > 0
}

// Start restores the persisted session (active user, voice list, saved voice
// preference) and speaks the startup greetings.
func (a *App) Start(ctx context.Context) error {
	available, err := a.engine.Voices(ctx)
	if err != nil {
		// No voices means a silent assistant, not a dead one.
		slog.Warn("speech engine offered no voices", "error", err)
	}

	active, err := a.profiles.Active()
	if err != nil {
		return err
	}

	sess := voice.Session{ActiveUser: active, Available: available}

	// Restore the saved voice: the active profile's preference, or the
	// standalone fallback key when nobody is active.
	saved := ""
	if active != "" {
		saved, _ = a.profiles.VoicePreference(active)
	}
	if saved == "" {
		saved, _ = a.profiles.FallbackVoice()
	}
	if v := voice.Find(available, saved); v != nil {
		sess.Selected = v
	} else if len(available) > 0 {
		sess.Selected = &available[0]
	}

	a.mu.Lock()
	a.sess = sess
	a.mu.Unlock()

	for _, line := range dispatch.StartupGreetings(time.Now(), active) {
		a.controller.Speak(message.UtteranceRequest{Text: line}, sess)
	}

	slog.Info("session restored", "active_user", active, "voices", len(available))
	return nil
}

// Command records the input, dispatches it, and returns the reply.
func (a *App) Command(ctx context.Context, text string) (message.Result, error) {
	if err := a.log.Append(message.SpeakerUser, text); err != nil {
		return message.Result{}, err
	}

	a.mu.Lock()
	sess := a.sess
	a.mu.Unlock()

	result, updated := a.dispatcher.Dispatch(ctx, text, sess)

	a.mu.Lock()
	a.sess = updated
	a.mu.Unlock()

	return result, nil
}

// Transcript returns the persisted transcript in insertion order.
func (a *App) Transcript() []message.TranscriptEntry {
	return a.log.Restore()
}

// ClearTranscript empties the transcript and returns the confirmation line.
func (a *App) ClearTranscript() (string, error) {
	a.mu.Lock()
	sess := a.sess
	a.mu.Unlock()
	return a.dispatcher.ClearTranscript(sess)
}

// Voices returns the cached voice list and the selected voice name.
func (a *App) Voices() ([]voice.Descriptor, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	selected := ""
	if a.sess.Selected != nil {
		selected = a.sess.Selected.Name
	}
	return a.sess.Available, selected
}

// SelectVoice switches the session voice and persists the preference.
func (a *App) SelectVoice(name string) error {
	a.mu.Lock()
	sess := a.sess
	a.mu.Unlock()

	updated, err := a.dispatcher.SelectVoice(name, sess)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.sess = updated
	a.mu.Unlock()
	return nil
}

// Stop silences any in-flight utterance.
func (a *App) Stop() {
	a.controller.Stop()
}
