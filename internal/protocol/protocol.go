package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeCmd     = "CMD"
	TypeAck     = "ACK"
	TypeEvent   = "EVENT"
	TypeState   = "STATE"
)

// Command ops accepted in CMD messages.
const (
	OpDig           = "dig"
	OpBuy           = "buy"
	OpPreventHazard = "prevent_hazard"
	OpTriggerHazard = "trigger_hazard"
	OpSave          = "save"
	OpLoad          = "load"
	OpExport        = "export"
	OpImport        = "import"
	OpReset         = "reset"

	OpAdminSetDepth = "admin_set_depth"
	OpAdminGrant    = "admin_grant"
	OpAdminUnlock   = "admin_unlock"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
