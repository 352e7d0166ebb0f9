// Package textfill generates real copy for composed pages through a
// chat-completion endpoint.
//
// A generation run makes exactly one request covering every distinct
// (slot, module) pair, with per-role character budgets derived from the
// composed geometry. The response is parsed tolerantly (first '{' to
// last '}') and validated against the expected role counts. A failed
// attempt is retried once with a stricter prompt; if that also fails the
// run falls back to deterministic placeholder text and the pages are
// produced anyway.
//
// Every run carries a fresh identity token so that late responses from
// a superseded run can be recognized and dropped.
package textfill
