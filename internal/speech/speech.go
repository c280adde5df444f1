// Package speech implements the speech output controller.
//
// Output is a single exclusive channel: a new utterance always cancels the
// one in flight, never queues behind it. Engine failures are swallowed; a
// missing voice or a dead synthesizer must never block the conversation.
package speech

import (
	"context"
	"log/slog"
	"regexp"
	"sync"

	"github.com/fridaylabs/friday/internal/message"
	"github.com/fridaylabs/friday/internal/voice"
)

// Options are the synthesis parameters sent with every utterance.
type Options struct {
	Rate   float64
	Pitch  float64
	Volume float64
}

// DefaultOptions returns the fixed defaults used for all assistant speech.
func DefaultOptions() Options {
	return Options{Rate: 1, Pitch: 1, Volume: 1}
}

// Engine is the synthesis capability consumed by the controller.
type Engine interface {
	// Voices lists the currently installed voices. The list may change
	// between calls when the engine reloads its models.
	Voices(ctx context.Context) ([]voice.Descriptor, error)

	// Speak renders text as audio using the given voice. It blocks until
	// playback finishes or ctx is cancelled.
	Speak(ctx context.Context, text string, v voice.Descriptor, opts Options) error

	// Close releases any resources held by the engine.
	Close() error
}

// VoicePreferences resolves a profile's stored voice name.
type VoicePreferences interface {
	VoicePreference(name string) (string, error)
}

// spellings maps letter-by-letter renderings of the assistant's own name to
// the spoken word form. Extend here when recognizers invent new spellings.
var spellings = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)f\.r\.i\.d\.a\.y\.?`), "Friday"},
	{regexp.MustCompile(`(?i)\bf r i d a y\b`), "Friday"},
}

// Normalize rewrites spelled-out forms of the assistant's name into the
// spoken word.
func Normalize(text string) string {
	for _, s := range spellings {
		text = s.pattern.ReplaceAllString(text, s.replacement)
	}
	return text
}

// Controller serializes all outgoing audio through one engine.
type Controller struct {
	engine Engine
	prefs  VoicePreferences

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

// NewController creates a speech controller. prefs may be nil when profile
// preferences should not influence voice selection.
func NewController(engine Engine, prefs VoicePreferences) *Controller {
	return &Controller{engine: engine, prefs: prefs}
}

// Speak requests one utterance. It cancels any utterance currently playing,
// resolves the voice from the session and the active profile's preference,
// and hands the text to the engine asynchronously. Empty text and an empty
// voice list are silent no-ops. Speak never returns an error to the caller.
func (c *Controller) Speak(req message.UtteranceRequest, sess voice.Session) {
	if req.Text == "" {
		return
	}

	text := Normalize(req.Text)

	profileVoice := ""
	if c.prefs != nil && sess.ActiveUser != "" {
		// A stale or missing preference degrades to the session voice.
		profileVoice, _ = c.prefs.VoicePreference(sess.ActiveUser)
	}

	v := voice.Select(req.LanguageHint, profileVoice, sess.Selected, sess.Available)
	if v == nil {
		slog.Debug("no voice available, skipping utterance")
		return
	}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		if err := c.engine.Speak(ctx, text, *v, DefaultOptions()); err != nil && ctx.Err() == nil {
			slog.Warn("speech engine failed, continuing without audio", "voice", v.Name, "error", err)
		}
	}()
}

// Stop cancels any utterance in flight and waits for the engine to let go.
// The controller refuses new utterances afterwards, so a Speak racing Stop
// cannot add to the wait group while Stop is draining it.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.wg.Wait()
}
