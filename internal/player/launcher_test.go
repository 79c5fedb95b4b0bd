package player

import (
	"errors"
	"testing"

	"github.com/mmcdole/reel/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLauncher(command string, args []string, goos string, installed ...string) *Launcher {
	l := NewLauncher(command, args, log.NullLogger())
	l.goos = goos
	l.lookPath = func(name string) (string, error) {
		for _, have := range installed {
			if have == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	return l
}

func TestCommandConfiguredPlayer(t *testing.T) {
	args := []string{"--fs"}
	l := newTestLauncher("mpv", args, "linux")

	name, got := l.Command("http://host/storage/a.mp4")
	assert.Equal(t, "mpv", name)
	assert.Equal(t, []string{"--fs", "http://host/storage/a.mp4"}, got)
	assert.Equal(t, []string{"--fs"}, args, "configured args are not modified")
}

func TestCommandDetectsInstalledPlayer(t *testing.T) {
	l := newTestLauncher("", nil, "linux", "vlc", "celluloid")
	name, args := l.Command("u")
	assert.Equal(t, "celluloid", name)
	assert.Equal(t, []string{"u"}, args)
}

func TestCommandFallsBackToSystemOpener(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{"linux", "xdg-open", []string{"u"}},
		{"darwin", "open", []string{"u"}},
		{"windows", "cmd", []string{"/c", "start", "", "u"}},
		{"plan9", "xdg-open", []string{"u"}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := newTestLauncher("", nil, tt.goos).Command("u")
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestLaunch(t *testing.T) {
	l := newTestLauncher("vlc", nil, "linux")
	var ran []string
	l.start = func(name string, args ...string) error {
		ran = append([]string{name}, args...)
		return nil
	}

	require.NoError(t, l.Launch("http://x/v.mp4"))
	assert.Equal(t, []string{"vlc", "http://x/v.mp4"}, ran)

	assert.ErrorIs(t, l.Launch(""), ErrNoMediaURL)

	l.start = func(string, ...string) error { return errors.New("exec failed") }
	assert.Error(t, l.Launch("http://x/v.mp4"))
}
