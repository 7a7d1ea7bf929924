package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/transcodeargs/internal/api/models"
	"github.com/smazurov/transcodeargs/internal/events"
	"github.com/smazurov/transcodeargs/internal/ffmpeg"
	"github.com/smazurov/transcodeargs/internal/metrics"
	"github.com/smazurov/transcodeargs/internal/state"
)

func (s *Server) registerResolveRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "resolve-command",
		Method:      http.MethodPost,
		Path:        "/api/resolve",
		Summary:     "Resolve command",
		Description: "Builds the complete ffmpeg argument string for a negotiated stream state",
		Tags:        []string{"resolve"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(_ context.Context, input *models.ResolveInput) (*models.ResolveResponse, error) {
		req := input.Body
		data, err := s.resolve(metrics.SourceAPI, req.OutputPath, &req.State, req.PerformSubtitleConversions)
		if err != nil {
			return nil, err
		}
		return &models.ResolveResponse{Body: data}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "resolve-video",
		Method:      http.MethodPost,
		Path:        "/api/resolve/video",
		Summary:     "Resolve video arguments",
		Description: "Builds only the video portion; the codec defaults to the selector's choice",
		Tags:        []string{"resolve"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(_ context.Context, input *models.VideoArgsInput) (*models.ArgsResponse, error) {
		st := &input.Body.State
		if err := s.validate(metrics.SourceAPI, st); err != nil {
			return nil, err
		}
		codec := input.Body.VideoCodec
		if codec == "" {
			codec = ffmpeg.SelectVideoCodec(st.VideoRequest)
		}
		args := s.options.Resolver().VideoArgs(st, codec, input.Body.PerformSubtitleConversion)
		return &models.ArgsResponse{Body: models.ArgsData{
			Args:  args,
			Codec: codec,
			Mode:  string(ffmpeg.PlanVideo(st, codec)),
		}}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "resolve-audio",
		Method:      http.MethodPost,
		Path:        "/api/resolve/audio",
		Summary:     "Resolve audio arguments",
		Description: "Builds only the audio portion; empty when the state has no audio stream",
		Tags:        []string{"resolve"},
		Security:    withAuth(),
		Errors:      []int{401, 422},
	}, func(_ context.Context, input *models.AudioArgsInput) (*models.ArgsResponse, error) {
		st := &input.Body.State
		if err := s.validate(metrics.SourceAPI, st); err != nil {
			return nil, err
		}
		data := models.ArgsData{
			Args: s.options.Resolver().AudioArgs(st),
			Mode: string(ffmpeg.PlanAudio(st)),
		}
		if st.AudioStream != nil {
			data.Codec = ffmpeg.SelectAudioCodec(st.Request)
		}
		return &models.ArgsResponse{Body: data}, nil
	})
}

// validate rejects malformed states with 422, recording the rejection.
func (s *Server) validate(source string, st *state.StreamState) error {
	err := st.Validate()
	if err == nil {
		return nil
	}
	metrics.ObserveRejection(metricSource(source), metrics.ReasonInvalid)
	s.eventBus.Publish(events.ResolutionFailedEvent{
		ID:        events.NewID(),
		Source:    source,
		Error:     err.Error(),
		Timestamp: events.Now(),
	})
	s.logger.Warn("Rejected stream state", "source", source, "error", err)
	return huma.Error422UnprocessableEntity("invalid stream state", err)
}

// resolve runs a full resolution. An empty outputPath falls back to the
// state's own output path.
func (s *Server) resolve(source, outputPath string, st *state.StreamState, burnIn bool) (models.ResolveData, error) {
	if err := s.validate(source, st); err != nil {
		return models.ResolveData{}, err
	}
	if outputPath == "" {
		outputPath = st.OutputPath
	}
	if outputPath == "" {
		metrics.ObserveRejection(metricSource(source), metrics.ReasonInvalid)
		return models.ResolveData{}, huma.Error422UnprocessableEntity("output path is required")
	}

	start := time.Now()
	res := s.options.Resolver().Resolve(outputPath, st, burnIn)
	metrics.ObserveResolution(metricSource(source), string(res.VideoMode), string(res.AudioMode), time.Since(start))

	id := events.NewID()
	s.eventBus.Publish(events.ResolutionEvent{
		ID:         id,
		Source:     source,
		OutputPath: outputPath,
		VideoCodec: res.VideoCodec,
		AudioCodec: res.AudioCodec,
		VideoMode:  string(res.VideoMode),
		AudioMode:  string(res.AudioMode),
		Timestamp:  events.Now(),
	})
	s.logger.Debug("Resolved command", "id", id, "source", source, "video_mode", res.VideoMode, "audio_mode", res.AudioMode, "command", res.Command)

	return models.ResolveData{
		ID:         id,
		Binary:     ffmpeg.Base(),
		Command:    res.Command,
		VideoArgs:  res.VideoArgs,
		AudioArgs:  res.AudioArgs,
		VideoCodec: res.VideoCodec,
		AudioCodec: res.AudioCodec,
		VideoMode:  string(res.VideoMode),
		AudioMode:  string(res.AudioMode),
		Threads:    res.Threads,
	}, nil
}

// metricSource collapses "state:<name>" to a bounded label value.
func metricSource(source string) string {
	if strings.HasPrefix(source, metrics.SourceState+":") {
		return metrics.SourceState
	}
	return source
}
