// Package protocol defines the preview observer protocol: a JSON bootstrap
// document plus a websocket stream of grid frames emitted as the pipeline
// steps.
package protocol

const Version = "1.0"

const (
	TypeSubscribe = "SUBSCRIBE"
	TypeFrame     = "FRAME"
	TypeDone      = "DONE"
	TypeError     = "ERROR"
)

// BootstrapResponse describes the run an observer is about to watch.
type BootstrapResponse struct {
	ProtocolVersion string            `json:"protocol_version"`
	RunID           string            `json:"run_id"`
	Seed            int64             `json:"seed"`
	Width           int               `json:"width"`
	Height          int               `json:"height"`
	Palette         []string          `json:"palette"`
	Colors          map[string]string `json:"colors"`
	Steps           []string          `json:"steps"`
}

// SubscribeMsg is the mandatory first client message on the websocket.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	// EveryN asks for a frame every N sub-steps; 0 means every step.
	EveryN int `json:"every_n,omitempty"`
}

// FrameMsg carries the grid after one sub-step. Cells is the row-major id
// array, zstd-compressed then base64-encoded.
type FrameMsg struct {
	Type   string `json:"type"`
	Cursor int    `json:"cursor"`
	Total  int    `json:"total"`
	Step   string `json:"step"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  string `json:"cells"`
	Digest string `json:"digest"`
}

// DoneMsg terminates the stream after the pipeline completes.
type DoneMsg struct {
	Type   string `json:"type"`
	Cursor int    `json:"cursor"`
	Digest string `json:"digest"`
}

// ErrorMsg reports a failed sub-step; the message carries the stage id.
type ErrorMsg struct {
	Type    string `json:"type"`
	Cursor  int    `json:"cursor"`
	Message string `json:"message"`
}
