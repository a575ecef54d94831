package journey

import (
	"fmt"
	"sync"
)

// ChangeKind tells subscribers which part of the tracker changed.
type ChangeKind string

const (
	ChangeStep     ChangeKind = "step"
	ChangeDocument ChangeKind = "document"
)

// Change is delivered to subscribers after every successful mutation.
type Change struct {
	Kind     ChangeKind
	From     Step
	To       Step
	Document DocumentKey
	Uploaded bool
}

// Tracker owns the current step and the document upload flags of one
// journey. Any step may be set from any other step; screens decide what
// follows what.
type Tracker struct {
	mu          sync.RWMutex
	current     Step
	documents   DocumentUploadProgress
	subscribers []func(Change)
}

// NewTracker starts a journey at the welcome step with no documents.
func NewTracker() *Tracker {
	return &Tracker{current: StepWelcome}
}

// RestoreTracker rebuilds a tracker from persisted state.
func RestoreTracker(current Step, documents DocumentUploadProgress) (*Tracker, error) {
	if !current.Valid() {
		return nil, fmt.Errorf("restore tracker: %w: %q", ErrUnknownStep, current)
	}
	return &Tracker{current: current, documents: documents}, nil
}

// Subscribe registers fn to be called after each change. Callbacks run on the
// mutating goroutine, outside the tracker lock.
func (t *Tracker) Subscribe(fn func(Change)) {
	t.mu.Lock()
	t.subscribers = append(t.subscribers, fn)
	t.mu.Unlock()
}

func (t *Tracker) CurrentStep() Step {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Steps returns the fixed sequence.
func (t *Tracker) Steps() []Step {
	return Steps()
}

// SetCurrentStep moves the journey to s without checking the predecessor.
func (t *Tracker) SetCurrentStep(s Step) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStep, s)
	}

	t.mu.Lock()
	from := t.current
	t.current = s
	subs := t.subscribers
	t.mu.Unlock()

	notify(subs, Change{Kind: ChangeStep, From: from, To: s})
	return nil
}

func (t *Tracker) DocumentProgress() DocumentUploadProgress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.documents
}

// UpdateDocumentProgress overwrites a single document flag.
func (t *Tracker) UpdateDocumentProgress(key DocumentKey, uploaded bool) error {
	t.mu.Lock()
	if err := t.documents.Set(key, uploaded); err != nil {
		t.mu.Unlock()
		return err
	}
	current := t.current
	subs := t.subscribers
	t.mu.Unlock()

	notify(subs, Change{Kind: ChangeDocument, From: current, To: current, Document: key, Uploaded: uploaded})
	return nil
}

// ProgressPercent is the progress bar position of the current step, 0..100.
func (t *Tracker) ProgressPercent() int {
	return ProgressPercent(t.CurrentStep())
}

// ProgressPercent maps a step to its progress bar position.
func ProgressPercent(s Step) int {
	i := s.Index()
	if i < 0 {
		return 0
	}
	return i * 100 / (len(sequence) - 1)
}

func notify(subs []func(Change), c Change) {
	for _, fn := range subs {
		fn(c)
	}
}
