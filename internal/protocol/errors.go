package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Command layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrNoResource    = "E_NO_RESOURCE"
	ErrMaxLevel      = "E_MAX_LEVEL"
	ErrRequirement   = "E_REQUIREMENT"
	ErrCooldown      = "E_COOLDOWN"
	ErrConflict      = "E_CONFLICT"
	ErrInvalidTarget = "E_INVALID_TARGET"

	// Persistence.
	ErrNotFound    = "E_NOT_FOUND"
	ErrCorruptSave = "E_CORRUPT_SAVE"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrNoResource:      {},
	ErrMaxLevel:        {},
	ErrRequirement:     {},
	ErrCooldown:        {},
	ErrConflict:        {},
	ErrInvalidTarget:   {},
	ErrNotFound:        {},
	ErrCorruptSave:     {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// Result is how the simulation reports validation rejections: a value, never
// an error. OK carries no code; every rejection carries a machine code plus a
// human-readable reason.
type Result struct {
	OK     bool   `json:"ok"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func Accepted() Result { return Result{OK: true} }

func Rejected(code, reason string) Result {
	return Result{OK: false, Code: code, Reason: reason}
}
