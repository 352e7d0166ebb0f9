package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mubarakmarafa/studio-style-creator/pkg/compose"
	"github.com/mubarakmarafa/studio-style-creator/pkg/errors"
	"github.com/mubarakmarafa/studio-style-creator/pkg/pipeline"
	"github.com/mubarakmarafa/studio-style-creator/pkg/spec"
	"github.com/mubarakmarafa/studio-style-creator/pkg/store"
)

// ====== Spec CRUD ======

// putSpecRequest is the create/update payload. An empty id creates a
// new record.
type putSpecRequest struct {
	ID    string    `json:"id,omitempty"`
	Kind  spec.Kind `json:"kind"`
	Name  string    `json:"name"`
	Owner string    `json:"owner,omitempty"`
	Spec  spec.Spec `json:"spec"`
}

func (s *Server) handleListSpecs(w http.ResponseWriter, r *http.Request) {
	f := store.Filter{
		Kind:  spec.Kind(r.URL.Query().Get("kind")),
		Owner: r.URL.Query().Get("owner"),
	}
	records, err := s.store.List(r.Context(), f)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "listing specs"))
		return
	}
	if records == nil {
		records = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handlePutSpec(w http.ResponseWriter, r *http.Request) {
	var req putSpecRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding spec payload"))
		return
	}
	if req.Kind != spec.KindLayout && req.Kind != spec.KindModule {
		writeError(w, errors.New(errors.ErrCodeInvalidSpec, "kind must be %q or %q", spec.KindLayout, spec.KindModule))
		return
	}

	rec := store.NewRecord(req.Kind, req.Name, req.Owner, req.Spec)
	if req.ID != "" {
		rec.ID = req.ID
		if existing, err := s.store.Get(r.Context(), req.ID); err == nil && existing != nil {
			rec.CreatedAt = existing.CreatedAt
		}
	}

	if err := s.store.Put(r.Context(), rec); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "storing spec"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetSpec(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "loading spec"))
		return
	}
	if rec == nil {
		writeError(w, errors.New(errors.ErrCodeSpecNotFound, "spec %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteSpec(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "deleting spec"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ====== Counting and Generation ======

// countRequest selects layouts and a module pool.
type countRequest struct {
	LayoutIDs []string `json:"layout_ids"`
	Pool      []string `json:"pool"`
}

// countResponse reports the total combination count. Validation
// failures are part of the normal response shape: the count is zero and
// Error carries the structured code, because an incomplete selection is
// an expected state while the user is still picking.
type countResponse struct {
	Count int64      `json:"count"`
	Error *errorBody `json:"error,omitempty"`
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	var req countRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding count payload"))
		return
	}

	src := store.NewSource(r.Context(), s.store)
	sel, err := compose.BuildSelection(req.LayoutIDs, src.Lookup, req.Pool)
	if err == nil {
		var count int64
		count, err = compose.Count(sel)
		if err == nil {
			writeJSON(w, http.StatusOK, countResponse{Count: count})
			return
		}
	}
	if errors.IsValidation(err) {
		writeJSON(w, http.StatusOK, countResponse{Count: 0, Error: newErrorBody(err)})
		return
	}
	writeError(w, err)
}

// generateResponse is the pipeline result shaped for the wire.
// Artifact bytes are base64 in JSON.
type generateResponse struct {
	RunID        string                `json:"run_id"`
	Count        int64                 `json:"count"`
	Combinations []compose.Combination `json:"combinations"`
	Artifacts    []map[string][]byte   `json:"artifacts"`
	Fallback     bool                  `json:"fallback"`
	Notice       string                `json:"notice,omitempty"`
	Stale        bool                  `json:"stale,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding generate payload"))
		return
	}

	opts.Source = store.NewSource(r.Context(), s.store)
	opts.TextClient = s.textClient()
	opts.Logger = s.logger
	if opts.Model == "" {
		opts.Model = s.cfg.Text.Model
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		RunID:        result.RunID.String(),
		Count:        result.Count,
		Combinations: result.Combinations,
		Artifacts:    result.Artifacts,
		Fallback:     result.Text.Fallback,
		Notice:       result.Text.Notice,
		Stale:        result.Stale,
	})
}

// ====== Response Helpers ======

// errorBody is the wire shape of a structured error.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newErrorBody(err error) *errorBody {
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	return &errorBody{Code: code, Message: errors.UserMessage(err)}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidSpec, errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeSpecNotFound, errors.ErrCodeLayoutNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeNoLayouts, errors.ErrCodeNoSlots, errors.ErrCodeEmptyPool, errors.ErrCodeOverflow:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]*errorBody{"error": newErrorBody(err)})
}
