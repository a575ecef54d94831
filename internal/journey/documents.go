package journey

import (
	"errors"
	"fmt"
)

// DocumentKey names one of the four KYC uploads tracked on the journey.
type DocumentKey string

const (
	DocumentIDFront      DocumentKey = "idFront"
	DocumentIDBack       DocumentKey = "idBack"
	DocumentAddressFront DocumentKey = "addressFront"
	DocumentAddressBack  DocumentKey = "addressBack"
)

var ErrUnknownDocument = errors.New("UNKNOWN_DOCUMENT")

// DocumentKeys returns the documents in upload order.
func DocumentKeys() []DocumentKey {
	return []DocumentKey{DocumentIDFront, DocumentIDBack, DocumentAddressFront, DocumentAddressBack}
}

// DocumentUploadProgress records which KYC documents currently have a file.
type DocumentUploadProgress struct {
	IDFront      bool `json:"idFront"`
	IDBack       bool `json:"idBack"`
	AddressFront bool `json:"addressFront"`
	AddressBack  bool `json:"addressBack"`
}

func (p *DocumentUploadProgress) field(key DocumentKey) (*bool, error) {
	switch key {
	case DocumentIDFront:
		return &p.IDFront, nil
	case DocumentIDBack:
		return &p.IDBack, nil
	case DocumentAddressFront:
		return &p.AddressFront, nil
	case DocumentAddressBack:
		return &p.AddressBack, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, key)
	}
}

// Get reports the flag for key.
func (p DocumentUploadProgress) Get(key DocumentKey) (bool, error) {
	f, err := p.field(key)
	if err != nil {
		return false, err
	}
	return *f, nil
}

// Set overwrites the flag for key.
func (p *DocumentUploadProgress) Set(key DocumentKey, uploaded bool) error {
	f, err := p.field(key)
	if err != nil {
		return err
	}
	*f = uploaded
	return nil
}

// Uploaded counts documents whose flag is set.
func (p DocumentUploadProgress) Uploaded() int {
	n := 0
	for _, b := range []bool{p.IDFront, p.IDBack, p.AddressFront, p.AddressBack} {
		if b {
			n++
		}
	}
	return n
}

func (p DocumentUploadProgress) All() bool {
	return p.Uploaded() == len(DocumentKeys())
}
