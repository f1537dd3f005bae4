package inmemory

import (
	"sync"
)

type OperationSnapshot struct {
	Total   uint64            `json:"total"`
	Success uint64            `json:"success"`
	Failure uint64            `json:"failure"`
	Retry   uint64            `json:"retry"`
	ByCode  map[string]uint64 `json:"by_code"`
}

type Snapshot struct {
	RequestTotal   uint64                       `json:"request_total"`
	RequestFailure uint64                       `json:"request_failure"`
	Operations     map[string]OperationSnapshot `json:"operations"`
}

type counters struct {
	success uint64
	failure uint64
	retry   uint64
	byCode  map[string]uint64
}

// Recorder counts use case outcomes per operation name.
type Recorder struct {
	mu  sync.Mutex
	ops map[string]*counters
}

func NewRecorder() *Recorder {
	return &Recorder{
		ops: map[string]*counters{},
	}
}

func (r *Recorder) op(name string) *counters {
	c, ok := r.ops[name]
	if !ok {
		c = &counters{byCode: map[string]uint64{}}
		r.ops[name] = c
	}
	return c
}

func (r *Recorder) RecordSuccess(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.op(operation).success++
}

func (r *Recorder) RecordFailure(operation, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := r.op(operation)
	c.failure++
	c.byCode[code]++
}

func (r *Recorder) RecordRetry(operation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.op(operation).retry++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{Operations: make(map[string]OperationSnapshot, len(r.ops))}
	for name, c := range r.ops {
		s := OperationSnapshot{
			Success: c.success,
			Failure: c.failure,
			Retry:   c.retry,
			Total:   c.success + c.failure,
			ByCode:  make(map[string]uint64, len(c.byCode)),
		}
		for k, v := range c.byCode {
			s.ByCode[k] = v
		}
		out.Operations[name] = s
		out.RequestTotal += s.Total
		out.RequestFailure += s.Failure
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
