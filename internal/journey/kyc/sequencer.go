// Package kyc sequences the four KYC document uploads: identity front and
// back, then address proof front and back.
package kyc

import (
	"errors"
	"fmt"

	"loan-journey-workers/internal/journey"
)

var (
	ErrMissingFile         = errors.New("MISSING_DOCUMENT_FILE")
	ErrInvalidTransition   = errors.New("INVALID_KYC_TRANSITION")
	ErrUnknownMethod       = errors.New("UNKNOWN_KYC_METHOD")
	ErrMethodUnavailable   = errors.New("KYC_METHOD_UNAVAILABLE")
	ErrUploadsNotCompleted = fmt.Errorf("%w: document uploads not completed", ErrInvalidTransition)
)

// FileRef describes a chosen file. Contents never pass through the journey.
type FileRef struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

// ProgressUpdater receives document flag changes; *journey.Tracker satisfies it.
type ProgressUpdater interface {
	UpdateDocumentProgress(key journey.DocumentKey, uploaded bool) error
}

// StepSetter moves the journey; *journey.Tracker satisfies it.
type StepSetter interface {
	SetCurrentStep(s journey.Step) error
}

// State is the persisted form of a Sequencer.
type State struct {
	Stage    Stage                            `json:"stage"`
	Selected Method                           `json:"selectedMethod"`
	Files    map[journey.DocumentKey]*FileRef `json:"files,omitempty"`
}

// Sequencer drives the document upload stages and mirrors each upload or
// retake into the journey's document flags.
type Sequencer struct {
	stage    Stage
	selected Method
	files    map[journey.DocumentKey]*FileRef
	progress ProgressUpdater
}

// NewSequencer starts at selection with document upload pre-selected.
func NewSequencer(progress ProgressUpdater) *Sequencer {
	return &Sequencer{
		stage:    StageSelection,
		selected: MethodDocumentUpload,
		files:    make(map[journey.DocumentKey]*FileRef),
		progress: progress,
	}
}

// Restore rebuilds a sequencer from persisted state.
func Restore(state State, progress ProgressUpdater) (*Sequencer, error) {
	if state.Stage == "" {
		return NewSequencer(progress), nil
	}
	if !state.Stage.Valid() {
		return nil, fmt.Errorf("restore kyc: %w: unknown stage %q", ErrInvalidTransition, state.Stage)
	}
	s := &Sequencer{
		stage:    state.Stage,
		selected: state.Selected,
		files:    make(map[journey.DocumentKey]*FileRef, len(state.Files)),
		progress: progress,
	}
	if s.selected == 0 {
		s.selected = MethodDocumentUpload
	}
	for k, f := range state.Files {
		s.files[k] = f
	}
	return s, nil
}

func (s *Sequencer) State() State {
	files := make(map[journey.DocumentKey]*FileRef, len(s.files))
	for k, f := range s.files {
		files[k] = f
	}
	return State{Stage: s.stage, Selected: s.selected, Files: files}
}

func (s *Sequencer) Stage() Stage { return s.stage }

func (s *Sequencer) Selected() Method { return s.selected }

func (s *Sequencer) Completed() bool { return s.stage == StageCompleted }

// File returns the file recorded for key, or nil.
func (s *Sequencer) File(key journey.DocumentKey) *FileRef { return s.files[key] }

// SelectMethod picks the verification method. eKYC and video KYC are
// disabled and leave the sequencer untouched.
func (s *Sequencer) SelectMethod(m Method) error {
	switch m {
	case MethodDocumentUpload:
		s.selected = m
		return nil
	case MethodEKYC, MethodVideoKYC:
		return fmt.Errorf("%w: %s", ErrMethodUnavailable, m)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMethod, int(m))
	}
}

// Proceed leaves selection for the first upload stage.
func (s *Sequencer) Proceed() error {
	if s.stage != StageSelection {
		return fmt.Errorf("%w: proceed from %s", ErrInvalidTransition, s.stage)
	}
	if s.selected != MethodDocumentUpload {
		return fmt.Errorf("%w: %s", ErrMethodUnavailable, s.selected)
	}
	s.stage = StageIDFront
	return nil
}

// Upload records f for the current stage, sets its progress flag and
// advances to the next stage.
func (s *Sequencer) Upload(f *FileRef) error {
	if f == nil {
		return ErrMissingFile
	}
	key, ok := s.stage.Document()
	if !ok {
		return fmt.Errorf("%w: upload at %s", ErrInvalidTransition, s.stage)
	}
	if err := s.progress.UpdateDocumentProgress(key, true); err != nil {
		return fmt.Errorf("update document progress: %w", err)
	}
	s.files[key] = f
	s.stage = nextStage[s.stage]
	return nil
}

// Back returns to the previous upload stage, or to selection from any stage
// without an explicit back edge.
func (s *Sequencer) Back() {
	if prev, ok := previousStage[s.stage]; ok {
		s.stage = prev
		return
	}
	s.stage = StageSelection
}

// Retake discards the file of the current stage and clears its flag. The
// stage does not change.
func (s *Sequencer) Retake() error {
	key, ok := s.stage.Document()
	if !ok {
		return fmt.Errorf("%w: retake at %s", ErrInvalidTransition, s.stage)
	}
	if err := s.progress.UpdateDocumentProgress(key, false); err != nil {
		return fmt.Errorf("update document progress: %w", err)
	}
	delete(s.files, key)
	return nil
}

// Continue hands the journey over to the lender step once all four
// documents are in.
func (s *Sequencer) Continue(steps StepSetter) error {
	if s.stage != StageCompleted {
		return ErrUploadsNotCompleted
	}
	return steps.SetCurrentStep(journey.StepLenderProcess)
}
