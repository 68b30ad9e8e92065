package events

// Event type constants for kelindar/event.
const (
	TypeCaptureStarted uint32 = iota + 1
	TypeCaptureSuccess
	TypeCaptureError
	TypeAccessDenied
	TypeAllowListReloaded
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// CaptureStartedEvent is published when a photo or video invocation opens
// the device.
type CaptureStartedEvent struct {
	ID        string `json:"id" example:"0b5d8c6e-6d1e-4a52-9a39-2e7f1c3f9b21" doc:"Invocation identifier"`
	Kind      string `json:"kind" example:"video" enum:"photo,video" doc:"What is being captured"`
	UserID    string `json:"user_id" example:"123456789" doc:"Requesting user"`
	Device    int    `json:"device" example:"0" doc:"Video device index"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Start timestamp"`
}

// Type returns the event type identifier for CaptureStartedEvent.
func (e CaptureStartedEvent) Type() uint32 { return TypeCaptureStarted }

// CaptureSuccessEvent is published when an output file has been written.
type CaptureSuccessEvent struct {
	ID        string  `json:"id" doc:"Invocation identifier"`
	Kind      string  `json:"kind" example:"photo" enum:"photo,video" doc:"What was captured"`
	UserID    string  `json:"user_id" example:"123456789" doc:"Requesting user"`
	Path      string  `json:"path" example:"output.jpg" doc:"Output file"`
	Frames    int     `json:"frames" example:"98" doc:"Frames read from the device"`
	FPS       float64 `json:"fps" example:"19.6" doc:"Measured frame rate, zero for photos"`
	Width     int     `json:"width" example:"1280" doc:"Output width in pixels"`
	Height    int     `json:"height" example:"720" doc:"Output height in pixels"`
	Duration  float64 `json:"duration_seconds" example:"5.4" doc:"Wall time of the invocation"`
	Timestamp string  `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Completion timestamp"`
}

// Type returns the event type identifier for CaptureSuccessEvent.
func (e CaptureSuccessEvent) Type() uint32 { return TypeCaptureSuccess }

// CaptureErrorEvent is published when an invocation fails.
type CaptureErrorEvent struct {
	ID        string  `json:"id" doc:"Invocation identifier"`
	Kind      string  `json:"kind" example:"video" enum:"photo,video" doc:"What was being captured"`
	UserID    string  `json:"user_id" example:"123456789" doc:"Requesting user"`
	Status    string  `json:"status" example:"device_disconnected" doc:"Failure class"`
	Error     string  `json:"error" example:"camera disconnected" doc:"Detailed error description"`
	Duration  float64 `json:"duration_seconds" example:"2.1" doc:"Wall time until failure"`
	Timestamp string  `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Error timestamp"`
}

// Type returns the event type identifier for CaptureErrorEvent.
func (e CaptureErrorEvent) Type() uint32 { return TypeCaptureError }

// AccessDeniedEvent is published when a user outside the allow-list sends
// a command.
type AccessDeniedEvent struct {
	UserID    string `json:"user_id" example:"555" doc:"Rejected user"`
	Command   string `json:"command" example:"/photo" doc:"Command that was ignored"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for AccessDeniedEvent.
func (e AccessDeniedEvent) Type() uint32 { return TypeAccessDenied }

// AllowListReloadedEvent is published after the allow-list was replaced
// from the config file.
type AllowListReloadedEvent struct {
	Users     int    `json:"users" example:"2" doc:"Number of allowed users"`
	Timestamp string `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Reload timestamp"`
}

// Type returns the event type identifier for AllowListReloadedEvent.
func (e AllowListReloadedEvent) Type() uint32 { return TypeAllowListReloaded }
