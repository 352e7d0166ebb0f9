package textfill

import (
	"math"

	"github.com/mubarakmarafa/studio-style-creator/pkg/compose"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// charWidthRatio approximates average glyph width as a fraction of the
// font size. Budgets derived from it are generous enough for
// proportional fonts without overflowing the composed rect.
const charWidthRatio = 0.55

// RoleBudget describes how many strings of one text role a slot needs
// and how long each may be, derived from the composed element geometry.
type RoleBudget struct {
	Count     int `json:"count"`
	LineChars int `json:"lineChars,omitempty"`
	Lines     int `json:"lines,omitempty"`
	MaxChars  int `json:"maxChars,omitempty"`
}

// SlotRequest is the text demand of one distinct (slot, module) pair.
type SlotRequest struct {
	Key      string     `json:"key"` // "{slotKey}|{moduleId}"
	SlotKey  string     `json:"slotKey"`
	ModuleID string     `json:"moduleId"`
	Headers  RoleBudget `json:"headers"`
	Titles   RoleBudget `json:"titles"`
	Bodies   RoleBudget `json:"bodies"`
}

// Roles returns the total number of strings the request expects across
// all three text roles.
func (r SlotRequest) Roles() int {
	return r.Headers.Count + r.Titles.Count + r.Bodies.Count
}

// BuildRequests collects the distinct (slot, module) pairs used by the
// given combinations and derives a budgeted request for each. Slots
// mapping to modules without text elements produce no request; a run
// with zero requests skips generation entirely.
func BuildRequests(layouts map[string]spec.Spec, modules map[string]spec.Spec, combos []compose.Combination) []SlotRequest {
	seen := map[string]bool{}
	var reqs []SlotRequest

	for _, combo := range combos {
		layout, ok := layouts[combo.LayoutID]
		if !ok {
			continue
		}
		rects := layout.SlotRects()
		for _, slotKey := range layout.SlotKeys() {
			moduleID, mapped := combo.Mapping[slotKey]
			if !mapped {
				continue
			}
			key := compose.Key(slotKey, moduleID)
			if seen[key] {
				continue
			}
			seen[key] = true

			req := buildRequest(key, slotKey, moduleID, modules[moduleID], rects[slotKey])
			if req.Roles() > 0 {
				reqs = append(reqs, req)
			}
		}
	}
	return reqs
}

// buildRequest composes the module into the slot (with empty content)
// and reads the budgets off the resulting text element rects. Using the
// composed geometry rather than the editor geometry means the budgets
// reflect what the page actually shows.
func buildRequest(key, slotKey, moduleID string, module spec.Spec, slot spec.Rect) SlotRequest {
	placed := compose.Place(slotKey, module, slot, compose.TextContent{})

	req := SlotRequest{Key: key, SlotKey: slotKey, ModuleID: moduleID}
	for i := range placed {
		switch placed[i].Type {
		case spec.TypeHeader:
			accumulate(&req.Headers, placed[i])
		case spec.TypeTitle:
			accumulate(&req.Titles, placed[i])
		case spec.TypeBodyText:
			accumulate(&req.Bodies, placed[i])
		}
	}
	return req
}

// accumulate counts one more element of the role. The budget geometry
// comes from the first element seen; repeated elements of the same role
// share it.
func accumulate(b *RoleBudget, el spec.Element) {
	b.Count++
	if b.LineChars > 0 {
		return
	}
	style := spec.StyleFor(el.Type)
	b.LineChars = atLeastOne(el.Rect.W / (style.FontSize * charWidthRatio))
	b.Lines = atLeastOne(el.Rect.H / (style.FontSize * style.LineHeight))
	b.MaxChars = b.LineChars * b.Lines
}

func atLeastOne(v float64) int {
	n := int(math.Floor(v))
	if n < 1 {
		return 1
	}
	return n
}
