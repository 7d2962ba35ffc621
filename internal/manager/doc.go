// Package manager coordinates access to the single loaded model session. It
// is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - admission.go: FIFO queueing and single in-flight generation admission.
//   - generate.go: generation entry point and NDJSON streaming.
//   - status.go: Status/Ready reporting helpers.
//   - errors.go: error types and helpers (IsTooBusy).
//   - metrics.go: Prometheus instrumentation for generation calls.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New, Ready, ListModels, Status, Generate, Close).
package manager
