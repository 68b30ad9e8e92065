package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"
	"github.com/smazurov/snapcam/internal/events"
)

// sseEventTypes maps SSE event names to payload types.
var sseEventTypes = map[string]any{
	"capture-started":    events.CaptureStartedEvent{},
	"capture-success":    events.CaptureSuccessEvent{},
	"capture-error":      events.CaptureErrorEvent{},
	"access-denied":      events.AccessDeniedEvent{},
	"allowlist-reloaded": events.AllowListReloadedEvent{},
}

func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Real-time stream of capture and access events",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, sseEventTypes, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		if s.options.EventBus == nil {
			<-ctx.Done()
			return
		}

		eventCh := make(chan any, 10)
		unsubscribe := events.SubscribeAll(s.options.EventBus, eventCh)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
