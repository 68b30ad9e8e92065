// Package gateway checks who may trigger captures, serializes them, and
// turns chat-style commands into pipeline invocations.
package gateway

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/smazurov/snapcam/internal/capture"
	"github.com/smazurov/snapcam/internal/events"
	"github.com/smazurov/snapcam/internal/logging"
)

var (
	// ErrNotAllowed means the user is not on the allow-list.
	ErrNotAllowed = errors.New("user not allowed")
	// ErrBusy means another capture is running. Requests are rejected,
	// not queued.
	ErrBusy = errors.New("capture already in progress")
)

// Capturer runs captures. *capture.Pipeline implements it.
type Capturer interface {
	CaptureStill(ctx context.Context) (capture.Result, error)
	CaptureVideo(ctx context.Context) (capture.Result, error)
}

// Publisher receives gateway events. *events.Bus implements it.
type Publisher interface {
	Publish(ev events.Event)
}

// Options configures a new Gateway.
type Options struct {
	// Capturer runs the captures (required).
	Capturer Capturer

	// AllowedUsers is the initial allow-list.
	AllowedUsers []string

	// ClipDuration is announced to users before recording.
	ClipDuration time.Duration

	// Events receives capture and access events (optional).
	Events Publisher

	// Clock returns the current time. If nil, uses time.Now.
	Clock func() time.Time

	// Logger for gateway operations. If nil, uses the "gateway" module logger.
	Logger logging.Logger
}

// Gateway is the single entry point for capture requests.
type Gateway struct {
	capturer Capturer
	allow    *AllowList
	clip     time.Duration
	events   Publisher
	now      func() time.Time
	logger   logging.Logger

	// mu is held for the duration of a capture; TryLock rejects overlap.
	mu sync.Mutex
}

// New creates a gateway and publishes the initial allow-list size.
func New(opts Options) *Gateway {
	g := &Gateway{
		capturer: opts.Capturer,
		allow:    NewAllowList(nil),
		clip:     opts.ClipDuration,
		events:   opts.Events,
		now:      opts.Clock,
		logger:   opts.Logger,
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.logger == nil {
		g.logger = logging.GetLogger("gateway")
	}
	if g.clip <= 0 {
		g.clip = capture.DefaultClipDuration
	}
	g.ReloadAllowList(opts.AllowedUsers)
	return g
}

// AllowList returns the live allow-list.
func (g *Gateway) AllowList() *AllowList {
	return g.allow
}

// ReloadAllowList replaces the allow-list, e.g. after the config file changed.
func (g *Gateway) ReloadAllowList(ids []string) {
	n := g.allow.Replace(ids)
	g.logger.Info("Allow-list loaded", "users", n)
	g.logger.Debug("Allowed user IDs", "ids", g.allow.IDs())
	if n == 0 {
		g.logger.Warn("Allow-list is empty, every command will be ignored")
	}
	g.publish(events.AllowListReloadedEvent{Users: n, Timestamp: g.timestamp()})
}

// Photo takes a still for userID.
func (g *Gateway) Photo(ctx context.Context, userID string) (capture.Result, error) {
	return g.run(ctx, userID, capture.KindPhoto, g.capturer.CaptureStill)
}

// Video records a clip for userID.
func (g *Gateway) Video(ctx context.Context, userID string) (capture.Result, error) {
	return g.run(ctx, userID, capture.KindVideo, g.capturer.CaptureVideo)
}

func (g *Gateway) run(
	ctx context.Context,
	userID string,
	kind capture.Kind,
	fn func(context.Context) (capture.Result, error),
) (capture.Result, error) {
	if !g.allow.Allowed(userID) {
		g.deny(userID, "/"+string(kind))
		return capture.Result{}, ErrNotAllowed
	}
	if !g.mu.TryLock() {
		g.logger.Warn("Capture rejected, device busy", "kind", kind, "user_id", userID)
		return capture.Result{}, ErrBusy
	}
	defer g.mu.Unlock()

	start := g.now()
	g.publish(events.CaptureStartedEvent{
		Kind:      string(kind),
		UserID:    userID,
		Timestamp: start.UTC().Format(time.RFC3339),
	})

	res, err := fn(ctx)
	elapsed := g.now().Sub(start).Seconds()
	if err != nil {
		status := capture.Classify(err)
		g.logger.Error("Capture failed", "kind", kind, "user_id", userID, "status", status.String(), "error", err)
		g.publish(events.CaptureErrorEvent{
			ID:        res.ID,
			Kind:      string(kind),
			UserID:    userID,
			Status:    status.String(),
			Error:     err.Error(),
			Duration:  elapsed,
			Timestamp: g.timestamp(),
		})
		return res, err
	}

	g.publish(events.CaptureSuccessEvent{
		ID:        res.ID,
		Kind:      string(kind),
		UserID:    userID,
		Path:      res.Path,
		Frames:    res.Frames,
		FPS:       res.FPS,
		Width:     res.Size.Width,
		Height:    res.Size.Height,
		Duration:  elapsed,
		Timestamp: g.timestamp(),
	})
	return res, nil
}

func (g *Gateway) deny(userID, command string) {
	g.logger.Warn("User tried to use the bot without permission", "user_id", userID, "command", command)
	g.publish(events.AccessDeniedEvent{UserID: userID, Command: command, Timestamp: g.timestamp()})
}

func (g *Gateway) publish(ev events.Event) {
	if g.events != nil {
		g.events.Publish(ev)
	}
}

func (g *Gateway) timestamp() string {
	return g.now().UTC().Format(time.RFC3339)
}
