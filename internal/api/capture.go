package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/snapcam/internal/api/models"
	"github.com/smazurov/snapcam/internal/capture"
	"github.com/smazurov/snapcam/internal/gateway"
)

func (s *Server) registerCaptureRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "capture-photo",
		Method:      http.MethodPost,
		Path:        "/api/photo",
		Summary:     "Take Photo",
		Description: "Warm up the camera, take one timestamped still and return it as JPEG",
		Tags:        []string{"capture"},
		Security:    withAuth(),
		Errors:      []int{401, 403, 409, 500, 502, 503},
	}, func(ctx context.Context, input *models.CaptureRequest) (*models.CaptureResponse, error) {
		res, err := s.options.Captures.Photo(ctx, input.UserID)
		if err != nil {
			return nil, captureError(err)
		}
		return s.captureResponse(res, "image/jpeg")
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "capture-video",
		Method:      http.MethodPost,
		Path:        "/api/video",
		Summary:     "Record Video",
		Description: "Record a fixed-length timestamped clip and return it as MP4",
		Tags:        []string{"capture"},
		Security:    withAuth(),
		Errors:      []int{401, 403, 409, 500, 502, 503},
	}, func(ctx context.Context, input *models.CaptureRequest) (*models.CaptureResponse, error) {
		res, err := s.options.Captures.Video(ctx, input.UserID)
		if err != nil {
			return nil, captureError(err)
		}
		return s.captureResponse(res, "video/mp4")
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "send-command",
		Method:      http.MethodPost,
		Path:        "/api/commands",
		Summary:     "Send Command",
		Description: "Handle a chat-style command (/start, /help, /photo, /video) and return the replies",
		Tags:        []string{"capture"},
		Security:    withAuth(),
		Errors:      []int{401, 500},
	}, func(ctx context.Context, input *models.CommandRequest) (*models.CommandResponse, error) {
		r := &collectingResponder{}
		msg := gateway.Message{
			UserID:   input.Body.UserID,
			UserName: input.Body.UserName,
			Text:     input.Body.Text,
		}
		if err := s.options.Captures.Handle(ctx, msg, r); err != nil {
			return nil, huma.Error500InternalServerError("Failed to handle command", err)
		}
		return &models.CommandResponse{Body: models.CommandResult{Replies: r.replies}}, nil
	})
}

func (s *Server) captureResponse(res capture.Result, contentType string) (*models.CaptureResponse, error) {
	data, err := os.ReadFile(res.Path)
	if err != nil {
		s.logger.Error("Failed to read capture output", "path", res.Path, "error", err)
		return nil, huma.Error500InternalServerError("Failed to read capture output", err)
	}

	resp := &models.CaptureResponse{
		ContentType: contentType,
		CaptureID:   res.ID,
		Frames:      res.Frames,
		Body:        data,
	}
	if res.Kind == capture.KindVideo {
		resp.FPS = strconv.FormatFloat(res.FPS, 'f', 2, 64)
	}
	return resp, nil
}

// captureError maps gateway and pipeline errors to HTTP statuses.
func captureError(err error) error {
	switch {
	case errors.Is(err, gateway.ErrNotAllowed):
		return huma.Error403Forbidden("User not allowed")
	case errors.Is(err, gateway.ErrBusy):
		return huma.Error409Conflict("Capture already in progress")
	case errors.Is(err, capture.ErrDeviceUnavailable):
		return huma.Error503ServiceUnavailable("Video device not available", err)
	case errors.Is(err, capture.ErrDeviceDisconnected):
		return huma.Error502BadGateway("Camera disconnected", err)
	default:
		return huma.Error500InternalServerError("Capture failed", err)
	}
}

// collectingResponder records gateway replies for the JSON response.
type collectingResponder struct {
	replies []models.Reply
}

func (c *collectingResponder) ReplyText(_ context.Context, text string) error {
	c.replies = append(c.replies, models.Reply{Kind: "text", Text: text})
	return nil
}

func (c *collectingResponder) SendPhoto(_ context.Context, path string) error {
	c.replies = append(c.replies, models.Reply{Kind: "photo", Path: path})
	return nil
}

func (c *collectingResponder) SendVideo(_ context.Context, path string) error {
	c.replies = append(c.replies, models.Reply{Kind: "video", Path: path})
	return nil
}
