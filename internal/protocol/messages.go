package protocol

import "encoding/json"

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ClientName      string `json:"client_name"`
	Slot            string `json:"slot,omitempty"`
	MaxQueue        int    `json:"max_queue,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	SessionID       string          `json:"session_id"`
	Params          GameParams      `json:"game_params"`
	Catalogs        CatalogDigests  `json:"catalogs"`
	State           json.RawMessage `json:"state"`
}

type GameParams struct {
	TickRateHz      int     `json:"tick_rate_hz"`
	ClickCooldownMs int     `json:"click_cooldown_ms"`
	DepthPerDig     float64 `json:"depth_per_dig"`
	Seed            int64   `json:"seed"`
}

type CatalogDigests struct {
	Upgrades     string `json:"upgrades_digest"`
	Hazards      string `json:"hazards_digest"`
	Achievements string `json:"achievements_digest"`
	Layers       string `json:"layers_digest"`
	Discoveries  string `json:"discoveries_digest"`
}

// CMD (client -> server)
type CmdMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	CmdID           string          `json:"cmd_id"`
	Op              string          `json:"op"`
	Args            json.RawMessage `json:"args,omitempty"`
}

// ACK (server -> client): one per CMD, accepted or rejected.
type AckMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	AckFor          string          `json:"ack_for"`
	Accepted        bool            `json:"accepted"`
	Code            string          `json:"code,omitempty"`
	Message         string          `json:"message,omitempty"`
	ServerTick      uint64          `json:"server_tick,omitempty"`
	Data            json.RawMessage `json:"data,omitempty"`
}

// EVENT (server -> client): batch of simulation notifications.
type EventMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	ServerTick      uint64  `json:"server_tick"`
	Events          []Event `json:"events"`
}

// Event is a single named change notification.
type Event struct {
	Name string         `json:"name"`
	Data map[string]any `json:"data,omitempty"`
}

// STATE (server -> client): periodic full-state document for re-render.
type StateMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	ServerTick      uint64          `json:"server_tick"`
	State           json.RawMessage `json:"state"`
}
