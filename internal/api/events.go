package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/transcodeargs/internal/events"
)

func (s *Server) registerEventRoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Event stream",
		Description: "Resolutions, rejections and reloads as Server-Sent Events",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"connected":         events.ConnectedEvent{},
		"resolution":        events.ResolutionEvent{},
		"resolution-failed": events.ResolutionFailedEvent{},
		"profile-reloaded":  events.ProfileReloadedEvent{},
		"states-reloaded":   events.StatesReloadedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 16)
		unsubscribers := []func(){
			events.SubscribeToChannel[events.ResolutionEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ResolutionFailedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.ProfileReloadedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.StatesReloadedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		// Headers only reach the client with the first frame.
		if err := send.Data(events.ConnectedEvent{
			Message:   "event stream connected",
			Timestamp: events.Now(),
		}); err != nil {
			return
		}

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
