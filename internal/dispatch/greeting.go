package dispatch

import (
	"fmt"
	"time"
)

// StartupGreetings returns the sentences spoken when the daemon comes up:
// either a welcome back for the restored active profile or the
// introduce-yourself prompt, followed by the time-of-day wish.
func StartupGreetings(now time.Time, activeUser string) []string {
	name := activeUser
	if name == "" {
		name = "User"
	}

	var greetings []string
	if activeUser != "" {
		greetings = append(greetings, fmt.Sprintf("Welcome back %s. Loading your profile.", activeUser))
	} else {
		greetings = append(greetings,
			"Initializing Friday system...",
			"Hi! Tell me who you are by saying 'I'm your name'.")
	}

	switch hour := now.Hour(); {
	case hour < 12:
		greetings = append(greetings, fmt.Sprintf("Good morning, %s.", name))
	case hour < 17:
		greetings = append(greetings, fmt.Sprintf("Good afternoon, %s.", name))
	default:
		greetings = append(greetings, fmt.Sprintf("Good evening, %s.", name))
	}

	return greetings
}
