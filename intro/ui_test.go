package intro

import "testing"

func TestOverlayShowHideEases(t *testing.T) {
	o := NewOverlay()
	o.Add("hud", "HELLO")

	o.Show("hud")
	o.Update(0.1)
	w := o.Lookup("hud")
	if w.Opacity <= 0 || w.Opacity >= 1 {
		t.Errorf("opacity should be mid-fade, got %v", w.Opacity)
	}

	o.Update(1.0)
	if w.Opacity != 1 {
		t.Errorf("opacity should settle at 1, got %v", w.Opacity)
	}

	o.Hide("hud")
	o.Update(1.0)
	if w.Opacity != 0 {
		t.Errorf("opacity should settle back at 0, got %v", w.Opacity)
	}
}

func TestOverlayUnknownNameFailsSoft(t *testing.T) {
	o := NewOverlay()
	// None of these may panic, and none may register anything
	o.Show("ghost")
	o.Hide("ghost")
	o.SetText("ghost", "BOO")
	o.Update(0.1)

	if o.Lookup("ghost") != nil {
		t.Error("operations on an unknown name must not create a widget")
	}
}

func TestOverlayAddIdempotent(t *testing.T) {
	o := NewOverlay()
	first := o.Add("hud", "ONE")
	second := o.Add("hud", "TWO")

	if first != second {
		t.Error("re-adding a name should return the original widget")
	}
	if first.Text != "ONE" {
		t.Errorf("re-add overwrote text: %q", first.Text)
	}
	if len(o.Visible()) != 0 {
		t.Errorf("widgets start hidden, got %d visible", len(o.Visible()))
	}
}

func TestOverlayVisibleOrder(t *testing.T) {
	o := NewOverlay()
	o.Add("a", "A")
	o.Add("b", "B")
	o.Add("c", "C")
	o.Show("c")
	o.Show("a")
	o.Update(1.0)

	vis := o.Visible()
	if len(vis) != 2 || vis[0].Name != "a" || vis[1].Name != "c" {
		t.Errorf("visible order should follow registration, got %v", vis)
	}
}
