package dispatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridaylabs/friday/internal/dispatch"
)

func at(hour int) time.Time {
	return time.Date(2026, time.March, 14, hour, 30, 0, 0, time.UTC)
}

func TestStartupGreetingsKnownUser(t *testing.T) {
	got := dispatch.StartupGreetings(at(9), "Alice")

	require.Len(t, got, 2)
	assert.Equal(t, "Welcome back Alice. Loading your profile.", got[0])
	assert.Equal(t, "Good morning, Alice.", got[1])
}

func TestStartupGreetingsNoActiveUser(t *testing.T) {
	got := dispatch.StartupGreetings(at(14), "")

	require.Len(t, got, 3)
	assert.Equal(t, "Initializing Friday system...", got[0])
	assert.Equal(t, "Hi! Tell me who you are by saying 'I'm your name'.", got[1])
	assert.Equal(t, "Good afternoon, User.", got[2])
}

func TestStartupGreetingsTimeOfDayBoundaries(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, "Good morning, Alice."},
		{11, "Good morning, Alice."},
		{12, "Good afternoon, Alice."},
		{16, "Good afternoon, Alice."},
		{17, "Good evening, Alice."},
		{23, "Good evening, Alice."},
	}

	for _, tc := range cases {
		got := dispatch.StartupGreetings(at(tc.hour), "Alice")
		assert.Equal(t, tc.want, got[len(got)-1], "hour %d", tc.hour)
	}
}
