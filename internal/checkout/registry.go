package checkout

import "sync"

// Registry keeps at most one live workflow per cart session, so concurrent
// checkout requests for the same cart share the same submit guard.
type Registry struct {
	mu     sync.Mutex
	active map[string]*registered

	released sync.WaitGroup
}

type registered struct {
	wf      *Workflow
	holders int
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*registered)}
}

// Acquire returns the live workflow for key, creating one with create if needed.
// Every successful Acquire must be paired with a Release.
func (r *Registry) Acquire(key string, create func() (*Workflow, error)) (*Workflow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.active[key]; ok {
		e.holders++
		return e.wf, nil
	}
	w, err := create()
	if err != nil {
		return nil, err
	}
	r.active[key] = &registered{wf: w, holders: 1}
	return w, nil
}

// Release drops one holder. The workflow is forgotten when its last holder
// leaves, and the next Acquire for the same key starts from a fresh workflow.
func (r *Registry) Release(key string, w *Workflow) {
	r.mu.Lock()
	e, ok := r.active[key]
	if !ok || e.wf != w {
		r.mu.Unlock()
		return
	}
	e.holders--
	if e.holders > 0 || w.State() == StateSubmitting {
		r.mu.Unlock()
		return
	}
	delete(r.active, key)
	r.released.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.released.Done()
		w.Wait()
	}()
}

// Wait blocks until notifications started by released workflows have finished.
func (r *Registry) Wait() {
	r.released.Wait()
}
