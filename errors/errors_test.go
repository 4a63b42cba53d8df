package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "phase and kind only",
			err:  &Error{Phase: PhaseLink, Kind: KindUsage},
			want: "[link] usage",
		},
		{
			name: "with object and symbol",
			err: &Error{
				Phase:  PhaseLink,
				Kind:   KindDuplicateSymbol,
				Object: "b.o.wasm",
				Symbol: "main",
			},
			want: "[link] duplicate_symbol in b.o.wasm: main",
		},
		{
			name: "with detail",
			err: &Error{
				Phase:  PhaseParse,
				Kind:   KindInvalidData,
				Object: "a.o.wasm",
				Detail: "truncated section",
			},
			want: "[parse] invalid_data in a.o.wasm: truncated section",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorCauseChain(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := IO(PhaseEmit, "out.wasm", cause)

	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("cause missing from message: %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the cause through Unwrap")
	}
}

func TestErrorIsMatchesPhaseAndKind(t *testing.T) {
	a := DuplicateSymbol("main", "a.o.wasm", "b.o.wasm")
	b := &Error{Phase: PhaseLink, Kind: KindDuplicateSymbol}

	if !stderrors.Is(a, b) {
		t.Error("errors with same phase and kind should match")
	}

	c := &Error{Phase: PhaseParse, Kind: KindDuplicateSymbol}
	if stderrors.Is(a, c) {
		t.Error("errors with different phases should not match")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		err       *Error
		wantPhase Phase
		wantKind  Kind
	}{
		{InvalidData(PhaseParse, "x", "bad magic"), PhaseParse, KindInvalidData},
		{Unsupported(PhaseLink, "x", "simd"), PhaseLink, KindUnsupported},
		{DuplicateSymbol("f", "a", "b"), PhaseLink, KindDuplicateSymbol},
		{UnresolvedImport("a", "env", "f"), PhaseLink, KindUnresolvedImport},
		{Conflict(PhaseFlags, "key", "values differ"), PhaseFlags, KindConflict},
		{NotFound(PhaseInit, "backend", "wasm32"), PhaseInit, KindNotFound},
		{Usage("unknown flag %q", "-x"), PhaseLink, KindUsage},
		{Registration("wasm32", "already registered"), PhaseInit, KindRegistration},
	}

	for _, tt := range tests {
		if tt.err.Phase != tt.wantPhase {
			t.Errorf("%v: phase = %q, want %q", tt.err, tt.err.Phase, tt.wantPhase)
		}
		if tt.err.Kind != tt.wantKind {
			t.Errorf("%v: kind = %q, want %q", tt.err, tt.err.Kind, tt.wantKind)
		}
	}
}

func TestUsageFormats(t *testing.T) {
	err := Usage("unknown flag %q", "-x")
	if !strings.Contains(err.Error(), `unknown flag "-x"`) {
		t.Errorf("usage detail not formatted: %q", err.Error())
	}
}
