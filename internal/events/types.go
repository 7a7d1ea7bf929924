package events

// Event type identifiers for kelindar/event.
const (
	TypeResolution uint32 = iota + 1
	TypeResolutionFailed
	TypeProfileReloaded
	TypeStatesReloaded
	TypeLogEntry
	TypeConnected
)

// Event is what kelindar/event dispatches on.
type Event interface {
	Type() uint32
}

// ResolutionEvent is published after a successful resolution.
type ResolutionEvent struct {
	ID         string `json:"id" example:"5f0c6b0e-8a4c-4b1e-9d59-6f1f8e2b9a10" doc:"Resolution identifier"`
	Source     string `json:"source" example:"api" doc:"Where the request came from: api or state:<name>"`
	OutputPath string `json:"output_path" example:"/tmp/out.mp4" doc:"Requested output path"`
	VideoCodec string `json:"video_codec" example:"libx264" doc:"Selected video encoder"`
	AudioCodec string `json:"audio_codec,omitempty" example:"aac -strict experimental" doc:"Selected audio encoder"`
	VideoMode  string `json:"video_mode" example:"encode" doc:"copy, encode or encode_burn_in"`
	AudioMode  string `json:"audio_mode" example:"copy" doc:"none, copy or encode"`
	Timestamp  string `json:"timestamp" example:"2026-10-17T10:30:00Z" doc:"Event timestamp"`
}

// Type implements Event.
func (e ResolutionEvent) Type() uint32 { return TypeResolution }

// ResolutionFailedEvent is published when a state is rejected before resolving.
type ResolutionFailedEvent struct {
	ID        string `json:"id" doc:"Resolution identifier"`
	Source    string `json:"source" example:"state:movie" doc:"Where the request came from"`
	Error     string `json:"error" example:"media path is required" doc:"Why the state was rejected"`
	Timestamp string `json:"timestamp" example:"2026-10-17T10:30:00Z" doc:"Event timestamp"`
}

// Type implements Event.
func (e ResolutionFailedEvent) Type() uint32 { return TypeResolutionFailed }

// ProfileReloadedEvent is published when the encoding profile changes on disk.
type ProfileReloadedEvent struct {
	Quality   string `json:"quality" example:"high_quality" doc:"Active quality setting"`
	CPUCount  int    `json:"cpu_count" example:"8" doc:"CPU count used for thread decisions"`
	Timestamp string `json:"timestamp" example:"2026-10-17T10:30:00Z" doc:"Event timestamp"`
}

// Type implements Event.
func (e ProfileReloadedEvent) Type() uint32 { return TypeProfileReloaded }

// StatesReloadedEvent is published when the state file is reloaded.
type StatesReloadedEvent struct {
	Path      string `json:"path" example:"states.toml" doc:"State file path"`
	Count     int    `json:"count" example:"3" doc:"Number of named states"`
	Timestamp string `json:"timestamp" example:"2026-10-17T10:30:00Z" doc:"Event timestamp"`
}

// Type implements Event.
func (e StatesReloadedEvent) Type() uint32 { return TypeStatesReloaded }

// LogEntryEvent carries one log record to /api/logs/stream.
type LogEntryEvent struct {
	Seq        uint64         `json:"seq" example:"42" doc:"Monotonic sequence number"`
	Timestamp  string         `json:"timestamp" example:"2026-10-17T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"api" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type implements Event.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }

// ConnectedEvent is the first frame of every event stream. It is never
// published on the bus.
type ConnectedEvent struct {
	Message   string `json:"message" example:"event stream connected" doc:"Connection confirmation"`
	Timestamp string `json:"timestamp" example:"2026-10-17T10:30:00Z" doc:"Connection timestamp"`
}

// Type implements Event.
func (e ConnectedEvent) Type() uint32 { return TypeConnected }
