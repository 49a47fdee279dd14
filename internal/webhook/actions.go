package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Result is the JSON acknowledgment returned for every dispatched action.
// Handler failures live here; the HTTP status stays 200.
type Result map[string]interface{}

// HandlerFunc handles one action from a normalized envelope.
type HandlerFunc func(ctx context.Context, message string, data map[string]interface{}) Result

const (
	defaultTitle       = "ActivePieces"
	defaultSound       = "Glass"
	defaultVoice       = "Samantha"
	systemSoundDir     = "/System/Library/Sounds"
	defaultExecTimeout = 30 * time.Second
)

// allowedPrefixes is a coarse allow-list for the execute action. It is a
// known weak boundary (osascript can shell out), not a security guarantee.
var allowedPrefixes = []string{"open ", "say ", "afplay ", "osascript "}

// Actions holds the fixed set of side-effect handlers.
type Actions struct {
	runner      CommandRunner
	execTimeout time.Duration
}

func NewActions(runner CommandRunner) *Actions {
	return &Actions{
		runner:      runner,
		execTimeout: defaultExecTimeout,
	}
}

// Notify sends a desktop notification via osascript.
func (a *Actions) Notify(ctx context.Context, message string, data map[string]interface{}) Result {
	title := stringField(data, "title", defaultTitle)
	sound := stringField(data, "sound", defaultSound)

	cleanMsg := sanitize(message)
	cleanTitle := strings.ReplaceAll(title, `"`, "'")

	script := fmt.Sprintf(`display notification "%s" with title "%s" sound name "%s"`, cleanMsg, cleanTitle, sound)

	if out, err := a.runner.Run(ctx, "osascript", "-e", script); err != nil {
		return Result{"success": false, "error": toolError(err, out)}
	}
	return Result{"success": true, "action": "notify", "message": message}
}

// Sound plays a named system sound, falling back to afplay directly when
// osascript fails. Best effort: always reports success.
func (a *Actions) Sound(ctx context.Context, message string, data map[string]interface{}) Result {
	sound := stringField(data, "sound", defaultSound)
	soundPath := fmt.Sprintf("%s/%s.aiff", systemSoundDir, sound)
	script := fmt.Sprintf(`do shell script "afplay %s"`, soundPath)

	if _, err := a.runner.Run(ctx, "osascript", "-e", script); err != nil {
		_, _ = a.runner.Run(ctx, "afplay", soundPath)
	}
	return Result{"success": true, "action": "sound", "sound": sound}
}

// Say speaks the message through the system TTS voice.
func (a *Actions) Say(ctx context.Context, message string, data map[string]interface{}) Result {
	voice := stringField(data, "voice", defaultVoice)
	cleanMsg := strings.ReplaceAll(message, `"`, "'")

	if out, err := a.runner.Run(ctx, "say", "-v", voice, cleanMsg); err != nil {
		return Result{"success": false, "error": toolError(err, out)}
	}
	return Result{"success": true, "action": "say", "message": message}
}

// Log pretty-prints the envelope data to the server log. Always succeeds.
func (a *Actions) Log(ctx context.Context, message string, data map[string]interface{}) Result {
	pretty, _ := json.MarshalIndent(data, "", "  ")
	log.Info().Msgf("LOG: %s", pretty)
	return Result{"success": true, "action": "log", "message": message}
}

// Execute runs a shell command from data.command, restricted to the
// allow-listed prefixes and a wall-clock timeout.
func (a *Actions) Execute(ctx context.Context, message string, data map[string]interface{}) Result {
	command := stringField(data, "command", "")
	if command == "" {
		return Result{"success": false, "error": "No command provided"}
	}

	if !commandAllowed(command) {
		return Result{"success": false, "error": "Command not allowed"}
	}

	ctx, cancel := context.WithTimeout(ctx, a.execTimeout)
	defer cancel()

	res, err := a.runner.RunShell(ctx, command)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Result{"success": false, "error": "Command timed out"}
		}
		return Result{"success": false, "error": err.Error()}
	}

	return Result{
		"success": res.ExitCode == 0,
		"action":  "execute",
		"stdout":  res.Stdout,
		"stderr":  res.Stderr,
	}
}

func commandAllowed(command string) bool {
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(command, prefix) {
			return true
		}
	}
	return false
}

// sanitize strips characters that would break the AppleScript literal.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, `"`, "'")
	s = strings.ReplaceAll(s, `\`, "")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}

func stringField(data map[string]interface{}, key, fallback string) string {
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func toolError(err error, output []byte) string {
	if out := strings.TrimSpace(string(output)); out != "" {
		return fmt.Sprintf("%v: %s", err, out)
	}
	return err.Error()
}

// Registry is the fixed action-name to handler mapping. It is immutable
// after construction; unrecognized actions fall back to notify, so no
// request is ever rejected for an unknown action.
type Registry struct {
	handlers map[string]HandlerFunc
	fallback HandlerFunc
}

func NewRegistry(a *Actions) *Registry {
	return &Registry{
		handlers: map[string]HandlerFunc{
			"notify":       a.Notify,
			"notification": a.Notify,
			"sound":        a.Sound,
			"say":          a.Say,
			"log":          a.Log,
			"execute":      a.Execute,
		},
		fallback: a.Notify,
	}
}

// Dispatch routes the envelope to its handler.
func (r *Registry) Dispatch(ctx context.Context, env Envelope) Result {
	handler, ok := r.handlers[env.Action]
	if !ok {
		handler = r.fallback
	}
	return handler(ctx, env.Message, env.Data)
}
