package gateway

import (
	"context"
	"fmt"
	"strings"
)

// Command names.
const (
	CommandStart = "/start"
	CommandHelp  = "/help"
	CommandPhoto = "/photo"
	CommandVideo = "/video"
)

// Replies sent to users.
const (
	HelpText        = "Available commands: \n/video\n/photo"
	SendingText     = "Sending..."
	PhotoFailedText = "Impossible to take photo now"
	VideoFailedText = "Impossible to record video now"
	recordingFormat = "Recording %g seconds..."
	greetingFormat  = "Hi %s!"
)

// Message is an incoming chat message.
type Message struct {
	UserID string
	// UserName is used in the greeting. Falls back to UserID.
	UserName string
	Text     string
}

// Responder delivers replies back to the user who sent a Message.
type Responder interface {
	ReplyText(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, path string) error
	SendVideo(ctx context.Context, path string) error
}

// ParseCommand returns the command word of text, lower-cased and without a
// "@botname" suffix. Text that is not a command yields "".
func ParseCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return strings.ToLower(cmd)
}

// Handle dispatches one message. Messages from users outside the
// allow-list are logged and dropped without a reply. Anything that is not
// a known command gets the help text. The returned error is a delivery
// failure; capture failures are reported to the user instead.
func (g *Gateway) Handle(ctx context.Context, msg Message, r Responder) error {
	cmd := ParseCommand(msg.Text)
	g.logger.Info("Command received", "command", cmd, "user_id", msg.UserID)

	if !g.allow.Allowed(msg.UserID) {
		g.deny(msg.UserID, cmd)
		return nil
	}

	switch cmd {
	case CommandStart:
		name := msg.UserName
		if name == "" {
			name = msg.UserID
		}
		return r.ReplyText(ctx, fmt.Sprintf(greetingFormat, name))

	case CommandPhoto:
		res, err := g.Photo(ctx, msg.UserID)
		if err != nil {
			return r.ReplyText(ctx, PhotoFailedText)
		}
		return r.SendPhoto(ctx, res.Path)

	case CommandVideo:
		if err := r.ReplyText(ctx, fmt.Sprintf(recordingFormat, g.clip.Seconds())); err != nil {
			return err
		}
		res, err := g.Video(ctx, msg.UserID)
		if err != nil {
			return r.ReplyText(ctx, VideoFailedText)
		}
		if err := r.ReplyText(ctx, SendingText); err != nil {
			return err
		}
		return r.SendVideo(ctx, res.Path)

	default:
		return r.ReplyText(ctx, HelpText)
	}
}
