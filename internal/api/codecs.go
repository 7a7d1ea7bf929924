package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/transcodeargs/internal/api/models"
	"github.com/smazurov/transcodeargs/internal/ffmpeg"
)

func (s *Server) registerCodecRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-codecs",
		Method:      http.MethodGet,
		Path:        "/api/codecs",
		Summary:     "List codecs",
		Description: "Lists the codec names accepted in requests and the encoders they select",
		Tags:        []string{"codecs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, _ *struct{}) (*models.CodecsResponse, error) {
		return &models.CodecsResponse{Body: models.CodecsData{
			Video: ffmpeg.VideoCodecs(),
			Audio: ffmpeg.AudioCodecs(),
			Copy:  ffmpeg.CodecCopy,
		}}, nil
	})
}
