package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrBadRequest,
		ErrNoResource,
		ErrMaxLevel,
		ErrRequirement,
		ErrCooldown,
		ErrConflict,
		ErrInvalidTarget,
		ErrNotFound,
		ErrCorruptSave,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestResultHelpers(t *testing.T) {
	ok := Accepted()
	if !ok.OK || ok.Code != "" {
		t.Fatalf("accepted result: %+v", ok)
	}
	bad := Rejected(ErrCooldown, "dig on cooldown")
	if bad.OK || bad.Code != ErrCooldown || bad.Reason == "" {
		t.Fatalf("rejected result: %+v", bad)
	}
}
