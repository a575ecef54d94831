package kyc

import "loan-journey-workers/internal/journey"

// Stage is a position in the document upload flow.
type Stage string

const (
	StageSelection    Stage = "selection"
	StageIDFront      Stage = "id-front"
	StageIDBack       Stage = "id-back"
	StageAddressFront Stage = "address-front"
	StageAddressBack  Stage = "address-back"
	StageCompleted    Stage = "completed"
)

// Method is the verification method picked on the selection stage.
type Method int

const (
	MethodEKYC           Method = 1
	MethodVideoKYC       Method = 2
	MethodDocumentUpload Method = 3
)

func (m Method) String() string {
	switch m {
	case MethodEKYC:
		return "ekyc"
	case MethodVideoKYC:
		return "video-kyc"
	case MethodDocumentUpload:
		return "document-upload"
	default:
		return "unknown"
	}
}

// stageDocuments maps each upload stage to the progress flag it owns.
var stageDocuments = map[Stage]journey.DocumentKey{
	StageIDFront:      journey.DocumentIDFront,
	StageIDBack:       journey.DocumentIDBack,
	StageAddressFront: journey.DocumentAddressFront,
	StageAddressBack:  journey.DocumentAddressBack,
}

var nextStage = map[Stage]Stage{
	StageIDFront:      StageIDBack,
	StageIDBack:       StageAddressFront,
	StageAddressFront: StageAddressBack,
	StageAddressBack:  StageCompleted,
}

// previousStage lists the explicit back edges; everything else goes back to
// selection.
var previousStage = map[Stage]Stage{
	StageIDBack:       StageIDFront,
	StageAddressFront: StageIDBack,
	StageAddressBack:  StageAddressFront,
}

// DocumentLabel is the title and hint shown on an upload stage.
type DocumentLabel struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

var stageLabels = map[Stage]DocumentLabel{
	StageIDFront:      {Title: "ID Proof (Front)", Description: "Upload the front side of your Aadhaar, Passport, or Driving License"},
	StageIDBack:       {Title: "ID Proof (Back)", Description: "Upload the back side of your ID document"},
	StageAddressFront: {Title: "Address Proof (Front)", Description: "Upload the front side of a utility bill, bank statement, or rental agreement"},
	StageAddressBack:  {Title: "Address Proof (Back)", Description: "Upload the back side of your address proof"},
}

// IsUploadStage reports whether s expects a file.
func (s Stage) IsUploadStage() bool {
	_, ok := stageDocuments[s]
	return ok
}

// Document returns the progress flag owned by an upload stage.
func (s Stage) Document() (journey.DocumentKey, bool) {
	k, ok := stageDocuments[s]
	return k, ok
}

func (s Stage) Label() (DocumentLabel, bool) {
	l, ok := stageLabels[s]
	return l, ok
}

func (s Stage) Valid() bool {
	switch s {
	case StageSelection, StageCompleted:
		return true
	}
	return s.IsUploadStage()
}

var stageProgress = map[Stage]int{
	StageSelection:    0,
	StageIDFront:      1,
	StageIDBack:       2,
	StageAddressFront: 3,
	StageAddressBack:  4,
	StageCompleted:    5,
}

// Progress is the "step n of 4" indicator shown during upload.
type Progress struct {
	Step    int `json:"step"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

func (s Stage) Progress() Progress {
	n := stageProgress[s]
	p := Progress{Step: n, Total: len(stageDocuments), Percent: n * 20}
	if s == StageCompleted {
		p.Step = p.Total
		p.Percent = 100
	}
	return p
}
