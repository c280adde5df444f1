// Package dispatch implements the command routing engine.
//
// The dispatcher receives one line of user text, decides which handler
// produces the reply, performs any profile mutation, and drives the speech
// controller. Dispatch is first-match-wins over an ordered list of patterns.
// Order matters because patterns overlap: a profile command that happens to
// contain "translate" must still be a profile command.
//
// The dispatcher keeps no session state of its own. Each invocation takes the
// current Session value and returns the updated one; the caller owns it.
// Every handler converts its errors into a user-facing reply. Nothing here
// is fatal; the worst outcome is a canned failure sentence spoken aloud.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fridaylabs/friday/internal/adapter/translate"
	"github.com/fridaylabs/friday/internal/message"
	"github.com/fridaylabs/friday/internal/profile"
	"github.com/fridaylabs/friday/internal/transcript"
	"github.com/fridaylabs/friday/internal/voice"
)

// Speaker is the speech output side of the dispatcher.
type Speaker interface {
	Speak(req message.UtteranceRequest, sess voice.Session)
}

// Translator is the translation adapter.
type Translator interface {
	Translate(ctx context.Context, text, targetCode string) (translate.Result, error)
}

// Chatter is the conversational-AI adapter.
type Chatter interface {
	Send(ctx context.Context, text string) (string, error)
}

// Navigator opens a named destination. The dispatcher never knows what the
// concrete presentation layer does with it.
type Navigator interface {
	Open(name, url string)
}

// Presenter receives the busy signal while a remote adapter call is
// outstanding.
type Presenter interface {
	SetBusy(busy bool)
}

// Fixed reply strings. Fallback paths carry an error kind internally; these
// are the sentences those kinds collapse to at the edge.
const (
	replyNamePrompt       = "I didn't catch the name, please repeat."
	replyTranslatePrompt  = "Say: 'Translate hello to Hindi'."
	replyTranslateFailed  = "Sorry, I couldn't translate that."
	replyChatFailed       = "Sorry, I couldn't reach the AI service right now."
	replyWeather          = "It's currently 28 degrees with clear skies in Hyderabad."
	replyNews             = "Top news: India launches new AI initiative, markets rise, scientists discover new exoplanet."
	replyChatCleared      = "Chat cleared successfully, boss. My memory has been reset."
)

var translatePattern = regexp.MustCompile(`(?i)translate (.+) to (.+)`)

var funFacts = []string{
	"Did you know the first computer bug was an actual moth found in a Harvard Mark Two computer in 1947?",
	"Bananas are berries, but strawberries aren't!",
	"The heart of a shrimp is located in its head.",
	"Honey never spoils. Archaeologists found honey in ancient Egyptian tombs that was still edible!",
	"Your phone has more computing power than the computers used for the Apollo 11 moon landing.",
	"Octopuses have three hearts and blue blood!",
	"The Eiffel Tower can grow more than six inches in summer because of heat expansion.",
}

var jokes = []string{
	"Why don't programmers like nature? It has too many bugs!",
	"Why did the computer show up late to work? It had a hard drive!",
	"I told my computer I needed a break, and now it won't stop sending me KitKat ads!",
	"Why do Java developers wear glasses? Because they can't C sharp!",
	"Parallel lines have so much in common. It's a shame they'll never meet!",
}

var interestingFacts = []string{
	"Did you know? The human brain generates enough electricity to power a small LED light bulb!",
	"Sharks existed before trees, over 400 million years ago!",
	"There are more stars in the universe than grains of sand on all the Earth's beaches combined!",
	"The word robot comes from a Czech word meaning forced labor.",
	"AI assistants like me process thousands of words in milliseconds, just to make you smile!",
}

var fallbackReplies = []string{
	"Tell me anything, I'm listening.",
	"You can ask me to open apps, translate text, or just chat!",
	"I'm here for you. What would you like me to do?",
	"Hmm, interesting! Want to try asking me something new?",
	"I'm ready for anything. What's on your mind?",
	"Go ahead, boss. I'm all ears.",
	"Would you like me to tell a fun fact or open something?",
	"Let's do something cool. Say 'open YouTube' or 'translate hello to Hindi.'",
}

// Dispatcher is the intent classifier and command router.
type Dispatcher struct {
	profiles   *profile.Store
	log        *transcript.Log
	speaker    Speaker
	translator Translator
	chatter    Chatter // nil when no relay is configured
	navigator  Navigator
	presenter  Presenter

	destinations []destination
	now          func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

type destination struct {
	name string
	url  string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock injects the time source used for the time and date replies.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithRandom injects the random source used for canned-reply selection, so
// tests can pin a seed.
func WithRandom(rng *rand.Rand) Option {
	return func(d *Dispatcher) { d.rng = rng }
}

// New creates a Dispatcher. chatter may be nil; the catch-all then answers
// from the friendly fallback pool. navigator and presenter may be nil.
func New(
	profiles *profile.Store,
	log *transcript.Log,
	speaker Speaker,
	translator Translator,
	chatter Chatter,
	navigator Navigator,
	presenter Presenter,
	destinations map[string]string,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		profiles:   profiles,
		log:        log,
		speaker:    speaker,
		translator: translator,
		chatter:    chatter,
		navigator:  navigator,
		presenter:  presenter,
		now:        time.Now,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	// Stable match order for destination phrases.
	names := make([]string, 0, len(destinations))
	for name := range destinations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		d.destinations = append(d.destinations, destination{name: name, url: destinations[name]})
	}

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes one user input. The caller has already appended the input
// as a user transcript entry; Dispatch appends exactly one assistant entry
// containing the final reply, speaks it exactly once, and returns the reply
// together with the updated session.
func (d *Dispatcher) Dispatch(ctx context.Context, rawText string, sess voice.Session) (message.Result, voice.Session) {
	raw := strings.TrimSpace(rawText)
	lower := strings.ToLower(raw)
	logger := slog.With("input_length", len(raw), "active_user", sess.ActiveUser)

	var (
		reply  string
		spoken string // overrides reply as the utterance text when set
		hint   string
	)

	dest := d.matchDestination(lower)

	switch {
	case strings.HasPrefix(lower, "i'm ") || strings.HasPrefix(lower, "i am "):
		reply, sess = d.handleIntroduction(raw, lower, sess)

	case strings.HasPrefix(lower, "switch user to"):
		reply, sess = d.handleSwitch(raw, sess)

	case strings.HasPrefix(lower, "delete user"):
		reply, sess = d.handleDelete(raw, sess)

	case dest != nil:
		if d.navigator != nil {
			d.navigator.Open(dest.name, dest.url)
		}
		reply = fmt.Sprintf("Opening %s...", dest.name)

	case strings.Contains(lower, "translate"):
		reply, spoken, hint = d.handleTranslate(ctx, raw)

	case strings.Contains(lower, "weather"):
		reply = replyWeather

	case strings.Contains(lower, "news"):
		reply = replyNews

	case strings.Contains(lower, "time"):
		reply = "The time is " + d.now().Format("3:04:05 PM")

	case strings.Contains(lower, "date"):
		reply = "Today's date is " + d.now().Format("Mon Jan 2 2006")

	case strings.Contains(lower, "bored"):
		reply = d.pick(funFacts)

	case strings.Contains(lower, "joke") || strings.Contains(lower, "make me laugh"):
		reply = d.pick(jokes)

	case strings.Contains(lower, "tell me something") || strings.Contains(lower, "fun fact"):
		reply = d.pick(interestingFacts)

	default:
		reply = d.handleChat(ctx, raw)
	}

	logger.Debug("dispatch complete", "reply_length", len(reply))

	// One spoken utterance and one assistant transcript entry per dispatch,
	// whichever branch produced the reply.
	if spoken == "" {
		spoken = reply
	}
	d.speaker.Speak(message.UtteranceRequest{Text: spoken, LanguageHint: hint}, sess)

	if err := d.log.Append(message.SpeakerAssistant, reply); err != nil {
		logger.Warn("failed to persist assistant reply", "error", err)
	}

	return message.Result{Input: raw, Reply: reply, Spoken: true}, sess
}

// ClearTranscript empties the transcript and confirms out loud.
func (d *Dispatcher) ClearTranscript(sess voice.Session) (string, error) {
	if err := d.log.Clear(); err != nil {
		return "", err
	}
	d.speaker.Speak(message.UtteranceRequest{Text: replyChatCleared}, sess)
	return replyChatCleared, nil
}

// SelectVoice makes name the session voice, persisting it as the active
// profile's preference or, with no active profile, as the standalone
// fallback. Unknown names return an error and change nothing.
func (d *Dispatcher) SelectVoice(name string, sess voice.Session) (voice.Session, error) {
	v := voice.Find(sess.Available, name)
	if v == nil {
		return sess, fmt.Errorf("selecting voice %q: %w", name, profile.ErrNotFound)
	}
	sess.Selected = v

	if sess.ActiveUser != "" {
		if err := d.profiles.SetVoicePreference(sess.ActiveUser, v.Name); err != nil {
			slog.Warn("failed to persist voice preference", "user", sess.ActiveUser, "error", err)
		}
	}
	if err := d.profiles.SetFallbackVoice(v.Name); err != nil {
		slog.Warn("failed to persist fallback voice", "error", err)
	}

	d.speaker.Speak(message.UtteranceRequest{Text: "Voice changed to " + v.Name}, sess)
	return sess, nil
}

func (d *Dispatcher) handleIntroduction(raw, lower string, sess voice.Session) (string, voice.Session) {
	n := len("i'm ")
	if strings.HasPrefix(lower, "i am ") {
		n = len("i am ")
	}
	name := strings.TrimSpace(raw[n:])
	if name == "" {
		return replyNamePrompt, sess
	}

	outcome, err := d.profiles.CreateOrUpdate(name, nil)
	if err != nil {
		slog.Error("profile create failed", "error", err)
		return replyNamePrompt, sess
	}

	// A brand-new profile inherits the session's current voice.
	if outcome == profile.Created && sess.Selected != nil {
		if err := d.profiles.SetVoicePreference(name, sess.Selected.Name); err != nil {
			slog.Warn("failed to store initial voice preference", "user", name, "error", err)
		}
	}

	if _, err := d.profiles.SetActive(name); err != nil {
		slog.Error("profile activate failed", "error", err)
		return replyNamePrompt, sess
	}

	sess.ActiveUser = name
	sess = d.adoptStoredVoice(name, sess)

	if outcome == profile.Created {
		return fmt.Sprintf("Hello %s, new profile created. I'll remember you.", name), sess
	}
	return fmt.Sprintf("Welcome back %s. I've loaded your preferences.", name), sess
}

func (d *Dispatcher) handleSwitch(raw string, sess voice.Session) (string, voice.Session) {
	name := strings.TrimSpace(raw[len("switch user to"):])

	if _, err := d.profiles.SetActive(name); err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return fmt.Sprintf("I don't have any saved profile for %s.", name), sess
		}
		slog.Error("profile switch failed", "error", err)
		return fmt.Sprintf("I don't have any saved profile for %s.", name), sess
	}

	sess.ActiveUser = name
	sess = d.adoptStoredVoice(name, sess)
	return fmt.Sprintf("Switched to %s's profile.", name), sess
}

func (d *Dispatcher) handleDelete(raw string, sess voice.Session) (string, voice.Session) {
	name := strings.TrimSpace(raw[len("delete user"):])

	if err := d.profiles.Delete(name); err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			slog.Error("profile delete failed", "error", err)
		}
		return fmt.Sprintf("No profile found for %s.", name), sess
	}

	if sess.ActiveUser == name {
		sess.ActiveUser = ""
	}
	return fmt.Sprintf("Profile for %s deleted.", name), sess
}

func (d *Dispatcher) handleTranslate(ctx context.Context, raw string) (reply, spoken, hint string) {
	m := translatePattern.FindStringSubmatch(raw)
	if len(m) < 3 {
		return replyTranslatePrompt, "", ""
	}

	text := strings.TrimSpace(m[1])
	targetName := strings.TrimSpace(m[2])
	code := translate.LanguageCode(targetName)

	if d.translator == nil {
		return replyTranslateFailed, "", ""
	}

	d.setBusy(true)
	res, err := d.translator.Translate(ctx, text, code)
	d.setBusy(false)
	if err != nil {
		slog.Warn("translation adapter failed", "error", err)
		return replyTranslateFailed, "", ""
	}

	// The full sentence goes to the transcript; only the translated text is
	// spoken, in a voice matching the target language.
	reply = fmt.Sprintf("Translation from %s to %s: %s",
		strings.ToUpper(res.DetectedLanguage), targetName, res.TranslatedText)
	return reply, res.TranslatedText, code
}

func (d *Dispatcher) handleChat(ctx context.Context, raw string) string {
	if d.chatter == nil {
		return d.pick(fallbackReplies)
	}

	d.setBusy(true)
	reply, err := d.chatter.Send(ctx, raw)
	d.setBusy(false)
	if err != nil {
		slog.Warn("chat adapter failed", "error", err)
		return replyChatFailed
	}
	return reply
}

// adoptStoredVoice copies the profile's stored voice preference into the
// session when that voice is still available. A stale preference is ignored.
func (d *Dispatcher) adoptStoredVoice(name string, sess voice.Session) voice.Session {
	pref, err := d.profiles.VoicePreference(name)
	if err != nil || pref == "" {
		return sess
	}
	if v := voice.Find(sess.Available, pref); v != nil {
		sess.Selected = v
	}
	return sess
}

func (d *Dispatcher) matchDestination(lower string) *destination {
	for i := range d.destinations {
		if strings.Contains(lower, "open "+d.destinations[i].name) {
			return &d.destinations[i]
		}
	}
	return nil
}

func (d *Dispatcher) setBusy(busy bool) {
	if d.presenter != nil {
		d.presenter.SetBusy(busy)
	}
}

func (d *Dispatcher) pick(pool []string) string {
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return pool[d.rng.Intn(len(pool))]
}
