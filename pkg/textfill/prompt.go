package textfill

import (
	"fmt"
	"sort"
	"strings"
)

// BuildPrompt renders the single generation prompt for a run: the topic,
// the required response shape, and one budgeted line per (slot, module)
// pair. Requests are emitted in stable key order so identical inputs
// produce identical prompts.
func BuildPrompt(topic string, reqs []SlotRequest) string {
	var b strings.Builder
	b.WriteString("Write concise copy for a page template about: ")
	b.WriteString(topic)
	b.WriteString("\n\n")
	b.WriteString("Respond with a single JSON object, no prose, of the shape:\n")
	b.WriteString(`{"items": {"<key>": {"headers": [...], "titles": [...], "bodies": [...]}}}` + "\n\n")
	b.WriteString("Required keys and budgets:\n")
	for _, r := range sortedByKey(reqs) {
		b.WriteString(fmt.Sprintf("- %q:", r.Key))
		writeRole(&b, "headers", r.Headers)
		writeRole(&b, "titles", r.Titles)
		writeRole(&b, "bodies", r.Bodies)
		b.WriteString("\n")
	}
	b.WriteString("\nEvery listed role needs exactly the requested number of non-empty strings.")
	return b.String()
}

// BuildRetryPrompt is the stricter second-attempt prompt, used after a
// response that could not be parsed or failed count validation.
func BuildRetryPrompt(topic string, reqs []SlotRequest) string {
	var b strings.Builder
	b.WriteString("Your previous response was not valid. ")
	b.WriteString("Return ONLY the JSON object described below, with no markdown fences ")
	b.WriteString("and no text before or after it. Every key must be present and every ")
	b.WriteString("role array must have exactly the requested number of non-empty strings.\n\n")
	b.WriteString(BuildPrompt(topic, reqs))
	return b.String()
}

func writeRole(b *strings.Builder, name string, r RoleBudget) {
	if r.Count == 0 {
		return
	}
	fmt.Fprintf(b, " %s=%d (max %d chars each)", name, r.Count, r.MaxChars)
}

func sortedByKey(reqs []SlotRequest) []SlotRequest {
	out := make([]SlotRequest, len(reqs))
	copy(out, reqs)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
