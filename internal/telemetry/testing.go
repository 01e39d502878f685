package telemetry

import (
	"fmt"
	"sync"
)

// Report is a single call recorded by RecordingAPI.
type Report struct {
	Kind   string
	ID     string
	Params []any
}

// RecordingAPI implements API by keeping every report in memory, it is meant for tests
// that assert a component reported (or did not report) something.
type RecordingAPI struct {
	mu      sync.Mutex
	Reports []Report
}

func (r *RecordingAPI) record(kind, id string, params []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Reports = append(r.Reports, Report{Kind: kind, ID: id, Params: params})
}

func (r *RecordingAPI) ReportBroken(id string, params ...any) {
	r.record("broken", id, params)
}

func (r *RecordingAPI) ReportWarning(id string, params ...any) {
	r.record("warning", id, params)
}

func (r *RecordingAPI) ReportDebug(msg string, params ...any) {
	r.record("debug", msg, params)
}

func (r *RecordingAPI) ReportCount(id string, count int64) {
	r.record("count", id, []any{count})
}

// Broken returns the ids of every ReportBroken call, in order.
func (r *RecordingAPI) Broken() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, rep := range r.Reports {
		if rep.Kind == "broken" {
			ids = append(ids, rep.ID)
		}
	}
	return ids
}

func (r Report) String() string {
	return fmt.Sprintf("%s %s %v", r.Kind, r.ID, r.Params)
}
