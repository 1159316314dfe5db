package naming_test

import (
	"testing"

	"github.com/reoring/facadegen/internal/naming"
)

func TestLocal(t *testing.T) {
	cases := map[string]string{
		"Life-Status": "life_status",
		"ModelTag":    "modeltag",
		"a.b c":       "a_b_c",
		"2fa":         "_2fa",
		"":            "_",
		"Ünïcode":     "ünïcode",
	}
	for wire, want := range cases {
		if got := naming.Local(wire); got != want {
			t.Errorf("Local(%q) = %q, want %q", wire, got, want)
		}
	}
}

func TestExported(t *testing.T) {
	cases := map[string]string{
		"life_status": "LifeStatus",
		"FullStatus":  "FullStatus",
		"_2fa":        "X2fa",
		"_":           "X",
		"type":        "Type",
	}
	for in, want := range cases {
		if got := naming.Exported(in); got != want {
			t.Errorf("Exported(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetClaim_ReservedAndDuplicates(t *testing.T) {
	s := naming.NewSet(naming.IsReserved)
	if got := s.Claim(naming.Local("Type")); got != "type_" {
		t.Fatalf("reserved word: got %q want type_", got)
	}
	if got := s.Claim("type_"); got != "type__" {
		t.Fatalf("second claim: got %q want type__", got)
	}
	if got := s.Claim("life_status"); got != "life_status" {
		t.Fatalf("free name: got %q", got)
	}
	if got := s.Claim("life_status"); got != "life_status_" {
		t.Fatalf("duplicate: got %q want life_status_", got)
	}
}

func TestSetClaim_Deterministic(t *testing.T) {
	wires := []string{"Life-Status", "life_status", "LIFE STATUS"}
	var first []string
	for run := 0; run < 3; run++ {
		s := naming.NewSet(naming.IsReserved)
		var got []string
		for _, w := range wires {
			got = append(got, s.Claim(naming.Local(w)))
		}
		if run == 0 {
			first = got
			continue
		}
		for i := range got {
			if got[i] != first[i] {
				t.Fatalf("run %d: got %v want %v", run, got, first)
			}
		}
	}
	if first[0] != "life_status" || first[1] != "life_status_" || first[2] != "life_status__" {
		t.Fatalf("unexpected names: %v", first)
	}
}

func TestIsReserved(t *testing.T) {
	for _, w := range []string{"func", "string", "ctx", "rpc", "err"} {
		if !naming.IsReserved(w) {
			t.Errorf("%q should be reserved", w)
		}
	}
	if naming.IsReserved("status") {
		t.Errorf("status should not be reserved")
	}
}
