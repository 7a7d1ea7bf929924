package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/transcodeargs/internal/api/models"
	"github.com/smazurov/transcodeargs/internal/events"
	"github.com/smazurov/transcodeargs/internal/metrics"
	"github.com/smazurov/transcodeargs/internal/state"
)

func (s *Server) registerStateRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-states",
		Method:      http.MethodGet,
		Path:        "/api/states",
		Summary:     "List states",
		Description: "Lists the named stream states of the state file",
		Tags:        []string{"states"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.StatesResponse, error) {
		names := []string{}
		if s.options.States != nil {
			names = s.options.States.Names()
		}
		return &models.StatesResponse{Body: models.StatesData{Names: names, Count: len(names)}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "resolve-state",
		Method:      http.MethodPost,
		Path:        "/api/states/{name}/resolve",
		Summary:     "Resolve named state",
		Description: "Builds the complete ffmpeg argument string for a state from the state file",
		Tags:        []string{"states", "resolve"},
		Security:    withAuth(),
		Errors:      []int{401, 404, 422},
	}, func(_ context.Context, input *models.StateResolveInput) (*models.ResolveResponse, error) {
		source := metrics.SourceState + ":" + input.Name
		if s.options.States == nil {
			return nil, s.notFound(source, input.Name)
		}
		st, err := s.options.States.Get(input.Name)
		if errors.Is(err, state.ErrStateNotFound) {
			return nil, s.notFound(source, input.Name)
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to read state", err)
		}

		data, err := s.resolve(source, input.Body.OutputPath, st, input.Body.PerformSubtitleConversions)
		if err != nil {
			return nil, err
		}
		return &models.ResolveResponse{Body: data}, nil
	})
}

func (s *Server) notFound(source, name string) error {
	metrics.ObserveRejection(metrics.SourceState, metrics.ReasonNotFound)
	s.eventBus.Publish(events.ResolutionFailedEvent{
		ID:        events.NewID(),
		Source:    source,
		Error:     state.ErrStateNotFound.Error(),
		Timestamp: events.Now(),
	})
	return huma.Error404NotFound("state " + name + " not found")
}
