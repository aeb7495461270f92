package validation

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsError(t *testing.T) {
	ve := Errorf("name is required")
	if ve.Error() != "name is required" {
		t.Errorf("unexpected message %q", ve.Error())
	}
	if !IsError(ve) {
		t.Error("expected a validation error to be recognized")
	}
	if !IsError(fmt.Errorf("save: %w", ve)) {
		t.Error("expected a wrapped validation error to be recognized")
	}
	if IsError(errors.New("connection refused")) {
		t.Error("plain errors must not count as validation errors")
	}
}
