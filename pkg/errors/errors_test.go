package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeEmptyPool, "module pool is empty")
	want := "EMPTY_POOL: module pool is empty"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "text generation request failed")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	if GetCode(err) != ErrCodeNetwork {
		t.Errorf("GetCode = %q, want NETWORK_ERROR", GetCode(err))
	}
}

func TestIsMatchesThroughChain(t *testing.T) {
	inner := New(ErrCodeOverflow, "combination count overflow")
	outer := fmt.Errorf("enumerate: %w", inner)

	if !Is(outer, ErrCodeOverflow) {
		t.Error("Is should match a code through fmt.Errorf wrapping")
	}
	if Is(outer, ErrCodeNoSlots) {
		t.Error("Is matched the wrong code")
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeNoSlots, "layout has no slots")
	if got := UserMessage(err); got != "layout has no slots" {
		t.Errorf("UserMessage = %q", got)
	}
	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage for plain error = %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	for _, code := range []Code{ErrCodeNoLayouts, ErrCodeLayoutNotFound,
		ErrCodeNoSlots, ErrCodeEmptyPool, ErrCodeOverflow} {
		if !IsValidation(New(code, "x")) {
			t.Errorf("IsValidation(%s) = false, want true", code)
		}
	}
	if IsValidation(New(ErrCodeTextFill, "x")) {
		t.Error("text-fill failure must not count as enumerator validation")
	}
	if IsValidation(stderrors.New("plain")) {
		t.Error("plain error must not count as validation")
	}
}
