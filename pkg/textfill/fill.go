package textfill

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mubarakmarafa/studio-style-creator/pkg/compose"
)

// maxAttempts is the protocol's attempt budget: the initial request plus
// exactly one retry with the stricter prompt.
const maxAttempts = 2

// Result is the outcome of one generation run. When Fallback is true no
// overrides were produced and the compositor's deterministic placeholder
// text applies; the run itself still succeeds.
type Result struct {
	RunID     uuid.UUID             `json:"runId"`
	Overrides compose.TextOverrides `json:"overrides,omitempty"`
	Attempts  int                   `json:"attempts"`
	Fallback  bool                  `json:"fallback"`
	Notice    string                `json:"notice,omitempty"`
}

// Runner executes the text-fill protocol: one batched request per run,
// one retry, placeholder fallback. A nil Client disables generation and
// every run falls through to placeholders without a notice.
type Runner struct {
	Client Client
	Logger *log.Logger
}

// Fill runs the protocol for one generation run. It never returns an
// error: text-fill failure is non-fatal by contract, and the Result says
// whether real copy or placeholders apply. The returned RunID tags the
// result so callers can discard it if a newer run has started since.
func (r *Runner) Fill(ctx context.Context, topic string, reqs []SlotRequest) Result {
	res := Result{RunID: uuid.New()}
	if r.Client == nil || len(reqs) == 0 {
		return res
	}

	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	prompts := []string{BuildPrompt(topic, reqs), BuildRetryPrompt(topic, reqs)}
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res.Attempts = attempt + 1
		overrides, err := r.attempt(ctx, prompts[attempt], reqs)
		if err == nil {
			res.Overrides = overrides
			return res
		}
		logger.Warn("text generation attempt failed",
			"run", res.RunID, "attempt", res.Attempts, "error", err)
		if ctx.Err() != nil {
			break
		}
	}

	res.Fallback = true
	res.Notice = "text generation failed, using placeholder text"
	logger.Warn(res.Notice, "run", res.RunID)
	return res
}

// attempt sends one prompt and runs the full parse/validate path on the
// response. Any failure, from the network up to count validation, is a
// failed attempt.
func (r *Runner) attempt(ctx context.Context, prompt string, reqs []SlotRequest) (compose.TextOverrides, error) {
	raw, err := r.Client.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	overrides, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	if err := Validate(reqs, overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}
