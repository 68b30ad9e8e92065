// Package models holds the request and response bodies of the HTTP API.
package models

import (
	"github.com/smazurov/snapcam/internal/devices"
	"github.com/smazurov/snapcam/internal/version"
)

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

type VersionResponse struct {
	Body version.Info
}

// Capture models
type CaptureRequest struct {
	UserID string `header:"X-User-ID" required:"true" example:"123456789" doc:"Caller identity checked against the allow-list"`
}

type CaptureResponse struct {
	ContentType string  `header:"Content-Type"`
	CaptureID   string  `header:"X-Capture-ID" doc:"Invocation identifier"`
	Frames      int     `header:"X-Capture-Frames" doc:"Frames encoded"`
	FPS         string  `header:"X-Capture-FPS" doc:"Measured frame rate written into the video"`
	Body        []byte
}

// Command models
type CommandData struct {
	UserID   string `json:"user_id" minLength:"1" example:"123456789" doc:"Sender identity"`
	UserName string `json:"user_name,omitempty" example:"Ana" doc:"Name used in the greeting"`
	Text     string `json:"text" example:"/photo" doc:"Message text"`
}

type CommandRequest struct {
	Body CommandData
}

type Reply struct {
	Kind string `json:"kind" enum:"text,photo,video" doc:"Reply type"`
	Text string `json:"text,omitempty" example:"Sending..." doc:"Text for text replies"`
	Path string `json:"path,omitempty" example:"/var/lib/snapcam/output.jpg" doc:"File for photo and video replies"`
}

type CommandResult struct {
	Replies []Reply `json:"replies" doc:"Replies in the order they were sent; empty for ignored senders"`
}

type CommandResponse struct {
	Body CommandResult
}

// Device models
type DeviceListData struct {
	Devices []devices.Device `json:"devices" doc:"Video capture devices"`
	Count   int              `json:"count" example:"1" doc:"Number of devices"`
}

type DeviceListResponse struct {
	Body DeviceListData
}
