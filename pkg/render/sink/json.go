package sink

import (
	"encoding/json"

	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
)

// RenderJSON renders a page spec as indented canonical JSON, suitable
// for persistence and API responses.
func RenderJSON(page spec.Spec) ([]byte, error) {
	return json.MarshalIndent(page, "", "  ")
}
