package textfill

import (
	"encoding/json"
	"strings"

	"github.com/mubarakmarafa/studio-style-creator/pkg/compose"
	"github.com/mubarakmarafa/studio-style-creator/pkg/errors"
)

// response is the wire shape the model is asked to produce.
type response struct {
	Items map[string]compose.TextContent `json:"items"`
}

// ExtractJSON recovers the JSON object from a raw model response. Models
// routinely wrap output in markdown fences or prose, so everything
// before the first '{' and after the last '}' is discarded rather than
// rejected.
func ExtractJSON(raw string) ([]byte, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, errors.New(errors.ErrCodeTextFill, "response contains no JSON object")
	}
	return []byte(raw[start : end+1]), nil
}

// Parse extracts and decodes a model response into per-key overrides.
func Parse(raw string) (compose.TextOverrides, error) {
	data, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTextFill, err, "response is not valid JSON")
	}
	if resp.Items == nil {
		return nil, errors.New(errors.ErrCodeTextFill, "response has no items")
	}
	return compose.TextOverrides(resp.Items), nil
}

// Validate checks parsed overrides against the requests' role counts.
// Each expected role must have at least the requested number of
// non-empty strings; extra strings are tolerated and ignored downstream.
func Validate(reqs []SlotRequest, items compose.TextOverrides) error {
	for _, r := range reqs {
		got, ok := items[r.Key]
		if !ok {
			return errors.New(errors.ErrCodeTextFill, "response missing key %q", r.Key)
		}
		if err := validateRole(r.Key, "headers", r.Headers.Count, got.Headers); err != nil {
			return err
		}
		if err := validateRole(r.Key, "titles", r.Titles.Count, got.Titles); err != nil {
			return err
		}
		if err := validateRole(r.Key, "bodies", r.Bodies.Count, got.Bodies); err != nil {
			return err
		}
	}
	return nil
}

func validateRole(key, role string, want int, got []string) error {
	if want == 0 {
		return nil
	}
	if len(got) < want {
		return errors.New(errors.ErrCodeTextFill,
			"key %q: %s has %d strings, need %d", key, role, len(got), want)
	}
	for i := 0; i < want; i++ {
		if strings.TrimSpace(got[i]) == "" {
			return errors.New(errors.ErrCodeTextFill,
				"key %q: %s[%d] is empty", key, role, i)
		}
	}
	return nil
}
