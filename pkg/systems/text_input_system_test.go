package systems

import (
	"strings"
	"testing"

	"github.com/decker502/questhud/pkg/components"
	"github.com/decker502/questhud/pkg/config"
	"github.com/decker502/questhud/pkg/ecs"
)

func TestInsertAndDelete(t *testing.T) {
	ctrl := &components.FormControlComponent{Value: "Rn", CursorPosition: 1}

	if !InsertText(ctrl, "e") || ctrl.Value != "Ren" || ctrl.CursorPosition != 2 {
		t.Fatalf("insert: %q cursor=%d", ctrl.Value, ctrl.CursorPosition)
	}
	if InsertText(ctrl, "\x08\n") {
		t.Error("control characters should be dropped")
	}
	if !InsertText(ctrl, "龍") || ctrl.Value != "Re龍n" {
		t.Errorf("insert multibyte: %q", ctrl.Value)
	}

	if !DeleteBefore(ctrl) || ctrl.Value != "Ren" || ctrl.CursorPosition != 2 {
		t.Errorf("backspace: %q cursor=%d", ctrl.Value, ctrl.CursorPosition)
	}
	if !DeleteAfter(ctrl) || ctrl.Value != "Re" {
		t.Errorf("delete: %q", ctrl.Value)
	}
	if DeleteAfter(ctrl) {
		t.Error("delete at end should be a no-op")
	}

	ctrl.CursorPosition = 0
	if DeleteBefore(ctrl) {
		t.Error("backspace at start should be a no-op")
	}
}

func TestInsertMaxLength(t *testing.T) {
	ctrl := &components.FormControlComponent{Value: strings.Repeat("a", textMaxLength)}
	ctrl.CursorPosition = textMaxLength
	if InsertText(ctrl, "b") {
		t.Error("insert beyond max length should fail")
	}
}

func TestTextInputFocus(t *testing.T) {
	em := ecs.NewEntityManager()
	system := NewTextInputSystem(em)

	alias := addControl(em, &components.FormControlComponent{Name: "alias", Kind: config.ControlKindInput, Value: "Ren"})
	box := addControl(em, &components.FormControlComponent{Name: "oath", Kind: config.ControlKindInput, Type: "checkbox"})
	locked := addControl(em, &components.FormControlComponent{Name: "vow", Kind: config.ControlKindTextarea, Disabled: true})

	system.Focus(alias)
	id, ctrl, ok := system.Focused()
	if !ok || id != alias || ctrl.CursorPosition != 3 {
		t.Fatalf("focus alias: ok=%v id=%d", ok, id)
	}

	system.Focus(box)
	if _, _, ok := system.Focused(); ok {
		t.Error("checkbox should not take text focus")
	}

	system.Focus(locked)
	if _, _, ok := system.Focused(); ok {
		t.Error("disabled textarea should not take focus")
	}
}
