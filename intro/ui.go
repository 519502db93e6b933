package intro

import "fmt"

// Standard overlay widget names.
const (
	WidgetStart        = "start"        // blocking "click to start" overlay
	WidgetInstructions = "instructions" // movement help line
	WidgetHint         = "hint"         // "you are near — enter" affordance
	WidgetSkip         = "skip"         // skip-intro affordance
)

// Widget is one overlay element. Opacity animates toward the shown/hidden
// target each tick; the frontend draws whatever is currently visible.
type Widget struct {
	Name    string
	Text    string
	Opacity float32

	target float32
}

// Overlay is the registry of HUD widgets standing in for anchor elements.
// Lookups for names that were never registered fail soft: the dependent
// behavior is skipped with a log line, never a crash.
type Overlay struct {
	widgets map[string]*Widget
	order   []string
	warned  map[string]bool
}

func NewOverlay() *Overlay {
	return &Overlay{
		widgets: make(map[string]*Widget),
		warned:  make(map[string]bool),
	}
}

// Add registers a widget, hidden by default. Adding an existing name is a
// no-op returning the original, so capability-gated setup code can run
// twice without duplicating elements.
func (o *Overlay) Add(name, text string) *Widget {
	if w, ok := o.widgets[name]; ok {
		return w
	}
	w := &Widget{Name: name, Text: text}
	o.widgets[name] = w
	o.order = append(o.order, name)
	return w
}

// Lookup returns nil for unknown names.
func (o *Overlay) Lookup(name string) *Widget {
	return o.widgets[name]
}

func (o *Overlay) Show(name string) {
	if w := o.lookupWarn(name); w != nil {
		w.target = 1
	}
}

func (o *Overlay) Hide(name string) {
	if w := o.lookupWarn(name); w != nil {
		w.target = 0
	}
}

func (o *Overlay) SetText(name, text string) {
	if w := o.lookupWarn(name); w != nil {
		w.Text = text
	}
}

func (o *Overlay) lookupWarn(name string) *Widget {
	w := o.widgets[name]
	if w == nil && !o.warned[name] {
		o.warned[name] = true
		fmt.Printf("[UI] widget %q missing, skipping\n", name)
	}
	return w
}

// Update eases every widget's opacity toward its target.
func (o *Overlay) Update(dt float32) {
	const fadeRate = 4.0 // full fade in 0.25 s
	step := fadeRate * dt
	for _, name := range o.order {
		w := o.widgets[name]
		switch {
		case w.Opacity < w.target:
			w.Opacity += step
			if w.Opacity > w.target {
				w.Opacity = w.target
			}
		case w.Opacity > w.target:
			w.Opacity -= step
			if w.Opacity < w.target {
				w.Opacity = w.target
			}
		}
	}
}

// Visible returns the widgets worth drawing, in registration order.
func (o *Overlay) Visible() []*Widget {
	var out []*Widget
	for _, name := range o.order {
		if w := o.widgets[name]; w.Opacity > 0.01 {
			out = append(out, w)
		}
	}
	return out
}
