package kyc

import (
	"testing"

	"loan-journey-workers/internal/journey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(name string) *FileRef {
	return &FileRef{Name: name, Size: 2048, ContentType: "image/jpeg"}
}

func startedSequencer(t *testing.T) (*Sequencer, *journey.Tracker) {
	t.Helper()
	tr := journey.NewTracker()
	s := NewSequencer(tr)
	require.NoError(t, s.Proceed())
	return s, tr
}

func TestSequencer_FullUpload(t *testing.T) {
	s, tr := startedSequencer(t)

	want := []Stage{StageIDBack, StageAddressFront, StageAddressBack, StageCompleted}
	for i, name := range []string{"id-front.jpg", "id-back.jpg", "bill-front.jpg", "bill-back.jpg"} {
		require.NoError(t, s.Upload(newFile(name)))
		assert.Equal(t, want[i], s.Stage())
	}

	assert.True(t, s.Completed())
	assert.True(t, tr.DocumentProgress().All())
	assert.Equal(t, "bill-back.jpg", s.File(journey.DocumentAddressBack).Name)

	require.NoError(t, s.Continue(tr))
	assert.Equal(t, journey.StepLenderProcess, tr.CurrentStep())
}

func TestSequencer_SelectMethod(t *testing.T) {
	tests := []struct {
		name    string
		method  Method
		wantErr error
	}{
		{"ekyc disabled", MethodEKYC, ErrMethodUnavailable},
		{"video kyc disabled", MethodVideoKYC, ErrMethodUnavailable},
		{"unknown", Method(9), ErrUnknownMethod},
		{"document upload", MethodDocumentUpload, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSequencer(journey.NewTracker())

			err := s.SelectMethod(tt.method)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, StageSelection, s.Stage())
			assert.Equal(t, MethodDocumentUpload, s.Selected())
		})
	}
}

func TestSequencer_BackInvertsForward(t *testing.T) {
	s, _ := startedSequencer(t)

	// selection -> id-front via proceed
	s.Back()
	assert.Equal(t, StageSelection, s.Stage())
	require.NoError(t, s.Proceed())

	for _, stage := range []Stage{StageIDFront, StageIDBack, StageAddressFront} {
		require.Equal(t, stage, s.Stage())
		require.NoError(t, s.Upload(newFile(string(stage))))
		s.Back()
		assert.Equal(t, stage, s.Stage(), "back after upload at %s", stage)
		require.NoError(t, s.Upload(newFile(string(stage))))
	}
}

func TestSequencer_BackDefaultsToSelection(t *testing.T) {
	s, _ := startedSequencer(t)
	s.Back()
	assert.Equal(t, StageSelection, s.Stage())

	s.Back()
	assert.Equal(t, StageSelection, s.Stage())

	s, _ = startedSequencer(t)
	for i := 0; i < 4; i++ {
		require.NoError(t, s.Upload(newFile("doc")))
	}
	s.Back()
	assert.Equal(t, StageSelection, s.Stage())
}

func TestSequencer_Retake(t *testing.T) {
	tests := []struct {
		stage Stage
		key   journey.DocumentKey
	}{
		{StageIDFront, journey.DocumentIDFront},
		{StageIDBack, journey.DocumentIDBack},
		{StageAddressFront, journey.DocumentAddressFront},
		{StageAddressBack, journey.DocumentAddressBack},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			tr := journey.NewTracker()
			files := make(map[journey.DocumentKey]*FileRef)
			for _, k := range journey.DocumentKeys() {
				require.NoError(t, tr.UpdateDocumentProgress(k, true))
				files[k] = newFile(string(k))
			}
			s, err := Restore(State{Stage: tt.stage, Files: files}, tr)
			require.NoError(t, err)

			require.NoError(t, s.Retake())

			assert.Equal(t, tt.stage, s.Stage())
			assert.Nil(t, s.File(tt.key))
			for _, k := range journey.DocumentKeys() {
				uploaded, err := tr.DocumentProgress().Get(k)
				require.NoError(t, err)
				assert.Equal(t, k != tt.key, uploaded, "document %s", k)
				if k != tt.key {
					assert.NotNil(t, s.File(k))
				}
			}
		})
	}

	for _, stage := range []Stage{StageSelection, StageCompleted} {
		t.Run(string(stage), func(t *testing.T) {
			tr := journey.NewTracker()
			s, err := Restore(State{Stage: stage}, tr)
			require.NoError(t, err)

			assert.ErrorIs(t, s.Retake(), ErrInvalidTransition)
			assert.Equal(t, stage, s.Stage())
		})
	}
}

func TestSequencer_RejectedOperations(t *testing.T) {
	t.Run("upload without file", func(t *testing.T) {
		s, tr := startedSequencer(t)
		assert.ErrorIs(t, s.Upload(nil), ErrMissingFile)
		assert.Equal(t, StageIDFront, s.Stage())
		assert.False(t, tr.DocumentProgress().IDFront)
	})

	t.Run("upload at selection", func(t *testing.T) {
		s := NewSequencer(journey.NewTracker())
		assert.ErrorIs(t, s.Upload(newFile("x")), ErrInvalidTransition)
		assert.Equal(t, StageSelection, s.Stage())
	})

	t.Run("retake at selection", func(t *testing.T) {
		s := NewSequencer(journey.NewTracker())
		assert.ErrorIs(t, s.Retake(), ErrInvalidTransition)
	})

	t.Run("proceed twice", func(t *testing.T) {
		s, _ := startedSequencer(t)
		assert.ErrorIs(t, s.Proceed(), ErrInvalidTransition)
	})

	t.Run("continue before completion", func(t *testing.T) {
		s, tr := startedSequencer(t)
		assert.ErrorIs(t, s.Continue(tr), ErrInvalidTransition)
		assert.Equal(t, journey.StepWelcome, tr.CurrentStep())
	})
}

func TestSequencer_StateRoundTrip(t *testing.T) {
	s, tr := startedSequencer(t)
	require.NoError(t, s.Upload(newFile("front")))

	restored, err := Restore(s.State(), tr)
	require.NoError(t, err)
	assert.Equal(t, StageIDBack, restored.Stage())
	assert.Equal(t, "front", restored.File(journey.DocumentIDFront).Name)

	_, err = Restore(State{Stage: "elsewhere"}, tr)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	fresh, err := Restore(State{}, tr)
	require.NoError(t, err)
	assert.Equal(t, StageSelection, fresh.Stage())
}

func TestStage_Progress(t *testing.T) {
	tests := []struct {
		stage   Stage
		step    int
		percent int
	}{
		{StageSelection, 0, 0},
		{StageIDFront, 1, 20},
		{StageIDBack, 2, 40},
		{StageAddressFront, 3, 60},
		{StageAddressBack, 4, 80},
		{StageCompleted, 4, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			p := tt.stage.Progress()
			assert.Equal(t, tt.step, p.Step)
			assert.Equal(t, 4, p.Total)
			assert.Equal(t, tt.percent, p.Percent)
		})
	}
}

func TestStage_Label(t *testing.T) {
	l, ok := StageAddressFront.Label()
	require.True(t, ok)
	assert.Equal(t, "Address Proof (Front)", l.Title)

	_, ok = StageCompleted.Label()
	assert.False(t, ok)
}
