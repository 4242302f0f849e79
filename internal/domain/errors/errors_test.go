package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind Kind
	}{
		{"not found", ErrNotFound, KindNotFound},
		{"access denied", ErrAccessDenied, KindAccess},
		{"invalid quantity", ErrInvalidQuantity, KindValidation},
		{"nothing ordered", ErrNothingOrdered, KindValidation},
		{"watermark", ErrWatermarkNotAdvanced, KindValidation},
		{"no recipients", ErrNoRecipients, KindValidation},
		{"capacity", ErrCapacityExceeded, KindConflict},
		{"duplicate", ErrDuplicateOrder, KindConflict},
		{"cutoff", ErrCutoffPassed, KindConflict},
		{"settled", ErrOrderSettled, KindConflict},
		{"already exists", ErrAlreadyExists, KindIntegrity},
		{"batch in use", ErrBatchInUse, KindIntegrity},
		{"settlement", ErrSettlementFailed, KindSettlement},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
			if got := KindOf(tc.err); got != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, got)
			}
		})
	}
}

func TestKindOfWrapped(t *testing.T) {
	wrapped := fmt.Errorf("create order: %w", ErrCapacityExceeded)
	if KindOf(wrapped) != KindConflict {
		t.Fatalf("expected conflict kind for wrapped error")
	}
	if !IsConflict(wrapped) {
		t.Fatal("expected wrapped capacity error to be a conflict")
	}

	joined := fmt.Errorf("%w: %w", ErrSettlementFailed, stdErrors.New("db down"))
	if KindOf(joined) != KindSettlement {
		t.Fatalf("expected settlement kind, got %s", KindOf(joined))
	}
	if !stdErrors.Is(joined, ErrSettlementFailed) {
		t.Fatal("expected joined error to match sentinel")
	}

	if KindOf(stdErrors.New("plain")) != KindUnknown {
		t.Fatal("expected unknown kind for foreign error")
	}
	if IsConflict(ErrInvalidQuantity) {
		t.Fatal("validation error must not be a conflict")
	}
	if IsConflict(nil) {
		t.Fatal("nil is not a conflict")
	}
}
