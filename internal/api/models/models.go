// Package models holds the request and response bodies of the HTTP API.
package models

import (
	"github.com/smazurov/transcodeargs/internal/ffmpeg"
	"github.com/smazurov/transcodeargs/internal/state"
	"github.com/smazurov/transcodeargs/internal/version"
)

// HealthData is the body of GET /api/health.
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Health status"`
	Message string `json:"message" example:"API is healthy" doc:"Health message"`
}

// HealthResponse wraps HealthData.
type HealthResponse struct {
	Body HealthData
}

// VersionResponse wraps the build metadata.
type VersionResponse struct {
	Body version.Info
}

// CodecsData lists the codec names accepted in requests.
type CodecsData struct {
	Video []ffmpeg.CodecMapping `json:"video" doc:"Video codec names and their encoders"`
	Audio []ffmpeg.CodecMapping `json:"audio" doc:"Audio codec names and their encoders"`
	Copy  string                `json:"copy" example:"copy" doc:"Token that requests pass-through"`
}

// CodecsResponse wraps CodecsData.
type CodecsResponse struct {
	Body CodecsData
}

// ResolveRequest asks for the full command of one state.
type ResolveRequest struct {
	OutputPath                 string            `json:"outputPath,omitempty" example:"/tmp/out.mp4" doc:"Output file; defaults to state.outputPath"`
	PerformSubtitleConversions bool              `json:"performSubtitleConversions,omitempty" doc:"Burn text subtitles into the scaled video"`
	State                      state.StreamState `json:"state" doc:"Negotiated stream state"`
}

// ResolveInput is the input of POST /api/resolve.
type ResolveInput struct {
	Body ResolveRequest
}

// ResolveData is the outcome of a resolution.
type ResolveData struct {
	ID         string `json:"id" doc:"Resolution identifier, also carried by the resolution event"`
	Binary     string `json:"binary" example:"ffmpeg -hide_banner" doc:"Binary and global flags to prefix"`
	Command    string `json:"command" doc:"Arguments passed to ffmpeg, without the binary"`
	VideoArgs  string `json:"videoArgs" doc:"Video portion of the command"`
	AudioArgs  string `json:"audioArgs" doc:"Audio portion of the command; empty without audio"`
	VideoCodec string `json:"videoCodec" example:"libx264" doc:"Selected video encoder token"`
	AudioCodec string `json:"audioCodec,omitempty" example:"libopus" doc:"Selected audio encoder token"`
	VideoMode  string `json:"videoMode" enum:"copy,encode,encode_burn_in" doc:"Video branch"`
	AudioMode  string `json:"audioMode" enum:"none,copy,encode" doc:"Audio branch"`
	Threads    int    `json:"threads" doc:"Value passed to -threads"`
}

// ResolveResponse wraps ResolveData.
type ResolveResponse struct {
	Body ResolveData
}

// VideoArgsRequest asks for the video portion only.
type VideoArgsRequest struct {
	VideoCodec                string            `json:"videoCodec,omitempty" example:"libx264" doc:"Encoder token used as is; defaults to the selector's choice"`
	PerformSubtitleConversion bool              `json:"performSubtitleConversion,omitempty" doc:"Burn text subtitles into the scaled video"`
	State                     state.StreamState `json:"state" doc:"Negotiated stream state"`
}

// VideoArgsInput is the input of POST /api/resolve/video.
type VideoArgsInput struct {
	Body VideoArgsRequest
}

// AudioArgsRequest asks for the audio portion only.
type AudioArgsRequest struct {
	State state.StreamState `json:"state" doc:"Negotiated stream state"`
}

// AudioArgsInput is the input of POST /api/resolve/audio.
type AudioArgsInput struct {
	Body AudioArgsRequest
}

// ArgsData is the output of a sub-builder.
type ArgsData struct {
	Args  string `json:"args" doc:"Argument string"`
	Codec string `json:"codec" doc:"Encoder token the arguments were built for"`
	Mode  string `json:"mode" doc:"Branch taken"`
}

// ArgsResponse wraps ArgsData.
type ArgsResponse struct {
	Body ArgsData
}

// StatesData lists the named states of the state file.
type StatesData struct {
	Names []string `json:"names" doc:"State names in sorted order"`
	Count int      `json:"count" example:"2" doc:"Number of states"`
}

// StatesResponse wraps StatesData.
type StatesResponse struct {
	Body StatesData
}

// StateResolveRequest carries the per-call options for a named state.
type StateResolveRequest struct {
	OutputPath                 string `json:"outputPath,omitempty" example:"/tmp/out.mp4" doc:"Output file; defaults to the state's outputPath"`
	PerformSubtitleConversions bool   `json:"performSubtitleConversions,omitempty" doc:"Burn text subtitles into the scaled video"`
}

// StateResolveInput is the input of POST /api/states/{name}/resolve.
type StateResolveInput struct {
	Name string `path:"name" example:"movie" doc:"State name"`
	Body StateResolveRequest `required:"false"`
}
