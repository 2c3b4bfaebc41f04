package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/astrodaily/internal/domain"
)

// Launcher opens record media externally: direct video files in a media
// player, everything else (embedded players, images, unknown) in the system
// URL handler.
type Launcher struct {
	command string   // configured player command, empty for auto-detection
	args    []string // additional arguments for the player
	goos    string
	exec    commandRunner
	logger  *slog.Logger
}

// commandRunner abstracts process creation
type commandRunner interface {
	LookPath(file string) (string, error)
	Start(name string, args ...string) error
	Run(name string, args ...string) error
}

type osRunner struct{}

func (osRunner) LookPath(file string) (string, error) { return exec.LookPath(file) }
func (osRunner) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}
func (osRunner) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// launchPath defines a single way to launch a player
type launchPath struct {
	path      string   // Command path: "mpv", "vlc", or "open-a:AppName"
	openFlags []string // For "open-a:" paths only - flags for macOS open command (e.g., ["-n"])
}

// players registry: player name -> platform -> launch paths to try in order
var players = map[string]map[string][]launchPath{
	"mpv": {
		"darwin":  {{path: "mpv"}},
		"linux":   {{path: "mpv"}},
		"windows": {{path: "mpv"}},
	},
	"vlc": {
		"darwin": {
			{path: "vlc"},
			{path: "open-a:VLC"},
		},
		"linux":   {{path: "vlc"}},
		"windows": {{path: "vlc"}},
	},
	"iina": {
		"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
	},
	"celluloid": {
		"linux": {{path: "celluloid"}},
	},
	"haruna": {
		"linux": {{path: "haruna"}},
	},
	"potplayer": {
		"windows": {{path: "PotPlayerMini64.exe"}, {path: "PotPlayerMini.exe"}},
	},
}

// candidatePlayers defines the preferred player order for each platform
var candidatePlayers = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv"},
	"linux":   {"mpv", "celluloid", "haruna", "vlc"},
	"windows": {"vlc", "mpv", "potplayer"},
}

var (
	errNoPlayer       = errors.New("no candidate players found")
	errUnsupportedURL = errors.New("refusing to open non-web URL")
)

// NewLauncher creates a Launcher for the configured player command
func NewLauncher(cfg PlayerConfig, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: cfg.Command,
		args:    cfg.Args,
		goos:    runtime.GOOS,
		exec:    osRunner{},
		logger:  logger,
	}
}

// Open launches url using the strategy its classification calls for
func (l *Launcher) Open(url string, c domain.MediaClassification) error {
	if c.Kind != domain.PlaybackDirect {
		l.logger.Info("opening in system handler", "url", url, "kind", c.Kind, "reason", c.Reason)
		return l.launchDefault(url)
	}

	// Tier 1: User configured a specific player
	if l.command != "" {
		l.logger.Info("using configured player", "command", l.command)
		return l.launchConfigured(url)
	}

	// Tier 2: Try candidate chain (IINA -> VLC -> mpv on macOS, etc.)
	if _, err := l.detectAndLaunch(url); err == nil {
		return nil
	}

	// Tier 3: Fall back to system default (open/xdg-open/start)
	l.logger.Info("no candidate players found, using system default")
	return l.launchDefault(url)
}

// detectAndLaunch tries candidate players in order using their launch paths.
// Returns the player name that succeeded.
func (l *Launcher) detectAndLaunch(url string) (string, error) {
	candidates, ok := candidatePlayers[l.goos]
	if !ok {
		candidates = candidatePlayers["linux"]
	}

	for _, name := range candidates {
		paths, ok := players[name][l.goos]
		if !ok {
			l.logger.Debug("player not available on this platform", "player", name, "platform", l.goos)
			continue
		}

		for _, lp := range paths {
			var err error
			if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
				err = l.openWithApp(app, url, nil, lp.openFlags)
			} else {
				err = l.launchCommand(lp.path, url, nil)
			}

			if err == nil {
				l.logger.Info("launched with detected player", "player", name, "path", lp.path)
				return name, nil
			}
			l.logger.Debug("launch path not available", "player", name, "path", lp.path, "error", err)
		}
	}

	return "", errNoPlayer
}

// openWithApp opens url with a macOS app through "open -a". Waits so a
// missing app is reported as an error.
func (l *Launcher) openWithApp(app, url string, playerArgs, openFlags []string) error {
	cmdArgs := append([]string{}, openFlags...)
	cmdArgs = append(cmdArgs, "-a", app)
	if len(playerArgs) > 0 {
		cmdArgs = append(cmdArgs, "--args")
		cmdArgs = append(cmdArgs, playerArgs...)
	}
	cmdArgs = append(cmdArgs, url)
	return l.exec.Run("open", cmdArgs...)
}

// launchCommand starts a CLI player found in PATH without waiting for it
func (l *Launcher) launchCommand(command, url string, args []string) error {
	if _, err := l.exec.LookPath(command); err != nil {
		return err
	}
	cmdArgs := append(append([]string{}, args...), url)
	return l.exec.Start(command, cmdArgs...)
}

// launchConfigured launches url with the configured player
func (l *Launcher) launchConfigured(url string) error {
	l.logger.Info("launching player", "command", l.command, "args", l.args, "url", url)

	// On macOS, GUI apps outside PATH are launched with 'open -a'
	if l.goos == "darwin" {
		if _, err := l.exec.LookPath(l.command); err != nil {
			var openFlags []string
			base := strings.ToLower(filepath.Base(l.command))
			base = strings.TrimSuffix(base, filepath.Ext(base))
			for _, lp := range players[base]["darwin"] {
				if strings.HasPrefix(lp.path, "open-a:") {
					openFlags = lp.openFlags
					break
				}
			}
			l.logger.Info("using macOS 'open -a' to launch GUI app", "app", l.command)
			return l.openWithApp(l.command, url, l.args, openFlags)
		}
	}

	args := append(append([]string{}, l.args...), url)
	if err := l.exec.Start(l.command, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.command, err)
	}
	return nil
}

// launchDefault opens the URL using the system default handler. Only web
// URLs are handed over; the URL reaches the handler as a single argument with
// no shell in between.
func (l *Launcher) launchDefault(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", errUnsupportedURL, rawURL)
	}

	l.logger.Info("launching with system default", "os", l.goos, "url", rawURL)

	switch l.goos {
	case "darwin":
		return l.exec.Start("open", rawURL)
	case "windows":
		return l.exec.Start("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		// Linux and other Unix-like systems
		return l.exec.Start("xdg-open", rawURL)
	}
}
