package player

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// ErrNoMediaURL is returned when a video has no playable file
var ErrNoMediaURL = errors.New("video has no media file")

// candidates lists players tried in order when none is configured
var candidates = map[string][]string{
	"darwin":  {"iina", "mpv", "vlc"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"mpv", "vlc"},
}

// Launcher opens media URLs in an external player
type Launcher struct {
	command string   // configured player, empty to auto-detect
	args    []string // extra arguments passed before the URL
	goos    string
	logger  *slog.Logger

	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
}

// NewLauncher creates a Launcher for the configured player command
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		goos:     runtime.GOOS,
		logger:   logger,
		lookPath: exec.LookPath,
		start:    startDetached,
	}
}

func startDetached(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Command returns the program and arguments that Launch would run for url
func (l *Launcher) Command(url string) (string, []string) {
	if l.command != "" {
		args := append([]string{}, l.args...)
		return l.command, append(args, url)
	}

	list, ok := candidates[l.goos]
	if !ok {
		list = candidates["linux"]
	}
	for _, name := range list {
		if _, err := l.lookPath(name); err == nil {
			return name, []string{url}
		}
	}

	return systemOpener(l.goos, url)
}

// systemOpener returns the platform's default URL handler
func systemOpener(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", "", url}
	default:
		return "xdg-open", []string{url}
	}
}

// Launch starts the player without waiting for it to exit
func (l *Launcher) Launch(url string) error {
	if url == "" {
		return ErrNoMediaURL
	}

	name, args := l.Command(url)
	l.logger.Info("launching player", "command", name, "args", args)

	if err := l.start(name, args...); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	return nil
}
