// Package control handles the websocket input protocol and gesture routing.
package control

// Rect is the control surface bounds the client measured at gesture start.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Message is a control websocket payload. Coordinates are pointers so a
// missing field is distinguishable from zero and can be treated as a
// malformed, skippable event.
type Message struct {
	T       string   `json:"t"`
	SID     string   `json:"sid,omitempty"`
	X       *float64 `json:"x,omitempty"`
	Y       *float64 `json:"y,omitempty"`
	Touch   bool     `json:"touch,omitempty"`
	Rect    *Rect    `json:"rect,omitempty"`
	Name    string   `json:"name,omitempty"`
	Value   string   `json:"value,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
}

// Inbound message types.
const (
	msgStart  = "start"
	msgMove   = "move"
	msgEnd    = "end"
	msgLeave  = "leave"
	msgCancel = "cancel"
	msgPress  = "press"
	msgAction = "action"
	msgInput  = "inputEnabled"
)

// msgMarker is the outbound marker-position echo.
const msgMarker = "marker"

// defaultSurface is the surface ID used when the client sends none; the UI
// has a single drive joystick.
const defaultSurface = "drive"

// markerMessage builds the outbound marker echo for a surface.
func markerMessage(sid string, x, y float64) Message {
	return Message{T: msgMarker, SID: sid, X: &x, Y: &y}
}
