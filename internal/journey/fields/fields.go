// Package fields implements the format checks applied to user input before a
// screen lets the journey move forward. Checks are pure and never consult
// external systems.
package fields

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field names reported in results and job outputs.
const (
	FieldPAN           = "pan"
	FieldOTP           = "otp"
	FieldAccountNumber = "accountNumber"
	FieldIFSC          = "ifsc"
	FieldUPI           = "upiId"
)

const (
	panLength     = 10
	otpLength     = 6
	accountMinLen = 9
)

var ErrFieldValidation = errors.New("FIELD_VALIDATION_FAILED")

var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

// Result is the outcome of one field check.
type Result struct {
	Field  string `json:"field"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Err returns nil for a passing result and an error wrapping
// ErrFieldValidation otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", ErrFieldValidation, r.Field, r.Reason)
}

func pass(field string) Result { return Result{Field: field, Valid: true} }

func fail(field, reason string) Result { return Result{Field: field, Reason: reason} }

// ValidatePAN checks length only; the character pattern of a PAN is not
// enforced.
func ValidatePAN(pan string) Result {
	if utf8.RuneCountInString(pan) != panLength {
		return fail(FieldPAN, "Please enter a valid 10-digit PAN number")
	}
	return pass(FieldPAN)
}

func ValidateOTP(otp string) Result {
	if len(otp) != otpLength || !allDigits(otp) {
		return fail(FieldOTP, "Please enter the 6-digit OTP")
	}
	return pass(FieldOTP)
}

func ValidateAccountNumber(account string) Result {
	if len(account) < accountMinLen || !allDigits(account) {
		return fail(FieldAccountNumber, "Please enter a valid bank account number")
	}
	return pass(FieldAccountNumber)
}

// ValidateIFSC expects four letters, a literal zero, then six alphanumerics.
func ValidateIFSC(ifsc string) Result {
	if !ifscPattern.MatchString(ifsc) {
		return fail(FieldIFSC, "Please enter a valid 11-character IFSC code")
	}
	return pass(FieldIFSC)
}

func ValidateUPI(upi string) Result {
	if upi == "" || !strings.Contains(upi, "@") {
		return fail(FieldUPI, "Please enter a valid UPI ID")
	}
	return pass(FieldUPI)
}

// Failed filters results down to the failing ones.
func Failed(results ...Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Valid {
			out = append(out, r)
		}
	}
	return out
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
