package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/snapcam/internal/api/models"
	"github.com/smazurov/snapcam/internal/devices"
)

type DeviceListInput struct {
	Formats bool `query:"formats" default:"true" doc:"Include formats, sizes and frame rates"`
}

func (s *Server) registerDeviceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-devices",
		Method:      http.MethodGet,
		Path:        "/api/devices",
		Summary:     "List Devices",
		Description: "List V4L2 video capture devices and the modes they support",
		Tags:        []string{"devices"},
		Security:    withAuth(),
		Errors:      []int{401, 500, 501},
	}, func(_ context.Context, input *DeviceListInput) (*models.DeviceListResponse, error) {
		if s.options.Devices == nil {
			return nil, huma.Error501NotImplemented("Device listing is not available")
		}

		found, err := s.options.Devices.FindDevices()
		if errors.Is(err, devices.ErrUnsupported) {
			return nil, huma.Error501NotImplemented("Device listing is not supported on this platform")
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list devices", err)
		}

		if input.Formats {
			for i, dev := range found {
				described, err := s.options.Devices.Describe(dev)
				if err != nil {
					s.logger.Warn("Failed to describe device", "device", dev.Path, "error", err)
					continue
				}
				found[i] = described
			}
		}

		return &models.DeviceListResponse{
			Body: models.DeviceListData{
				Devices: found,
				Count:   len(found),
			},
		}, nil
	})
}
