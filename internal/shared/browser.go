package shared

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

var getRuntime = func() string { return runtime.GOOS }

// commandStarter is swapped in tests so no process is spawned.
var commandStarter = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenURL hands a URL (article page, narration audio, teaser video) to the system's default handler.
//
// Supports macOS, Linux, and Windows platforms.
func OpenURL(url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: empty URL", ErrInvalidArgument)
	}

	var name string
	var args []string
	switch rt := getRuntime(); rt {
	case "darwin":
		name, args = "open", []string{url}
	case "linux":
		name, args = "xdg-open", []string{url}
	case "windows":
		name, args = "cmd", []string{"/c", "start", url}
	default:
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	if err := commandStarter(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

// Notify shows a desktop notification.
//
// Linux uses notify-send and macOS uses osascript; other platforms return [ErrNotImplemented].
func Notify(title, body string) error {
	var name string
	var args []string
	switch rt := getRuntime(); rt {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q", body, title)
		name, args = "osascript", []string{"-e", script}
	case "linux":
		name, args = "notify-send", []string{title, body}
	default:
		return fmt.Errorf("%w: notifications on %s", ErrNotImplemented, rt)
	}

	if err := commandStarter(name, args...); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
