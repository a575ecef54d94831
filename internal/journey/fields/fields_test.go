package fields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePAN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"well formed", "ABCDE1234F", true},
		{"length only, any characters", "1234567890", true},
		{"lowercase accepted", "abcde1234f", true},
		{"nine characters", "ABCDE1234", false},
		{"eleven characters", "ABCDE1234FG", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ValidatePAN(tt.input)
			assert.Equal(t, tt.valid, r.Valid)
			assert.Equal(t, FieldPAN, r.Field)
			if !tt.valid {
				assert.Equal(t, "Please enter a valid 10-digit PAN number", r.Reason)
			}
		})
	}
}

func TestValidateOTP(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"12 456", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateOTP(tt.input).Valid)
		})
	}
}

func TestValidateAccountNumber(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"123456789", true},
		{"123456789012345678", true},
		{"12345678", false},
		{"12345678X", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateAccountNumber(tt.input).Valid)
		})
	}
}

func TestValidateIFSC(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"HDFC0123456", true},
		{"SBIN0ABC123", true},
		{"HDFC1123456", false},
		{"hdfc0123456", false},
		{"HDFC012345", false},
		{"HDFC01234567", false},
		{"HD1C0123456", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateIFSC(tt.input).Valid)
		})
	}
}

func TestValidateUPI(t *testing.T) {
	assert.True(t, ValidateUPI("name@okbank").Valid)
	assert.True(t, ValidateUPI("@").Valid)
	assert.False(t, ValidateUPI("name.okbank").Valid)
	assert.False(t, ValidateUPI("").Valid)
}

func TestResult_Err(t *testing.T) {
	assert.NoError(t, ValidateOTP("123456").Err())

	err := ValidateOTP("12345").Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFieldValidation))
	assert.Contains(t, err.Error(), FieldOTP)
}

func TestFailed(t *testing.T) {
	out := Failed(ValidateOTP("123456"), ValidateIFSC("bad"), ValidatePAN("short"))

	require.Len(t, out, 2)
	assert.Equal(t, FieldIFSC, out[0].Field)
	assert.Equal(t, FieldPAN, out[1].Field)
	assert.Nil(t, Failed(ValidateUPI("a@b")))
}

type mandateForm struct {
	AccountNumber string `json:"accountNumber" validate:"bankaccount"`
	IFSC          string `json:"ifsc" validate:"ifsc"`
	Method        string `json:"method" validate:"required,oneof=bank-account upi"`
}

func TestValidator_Struct(t *testing.T) {
	v := NewValidator()

	t.Run("valid", func(t *testing.T) {
		results := v.Struct(mandateForm{AccountNumber: "123456789", IFSC: "HDFC0123456", Method: "upi"})
		assert.Empty(t, results)
	})

	t.Run("field rules use json names and rule reasons", func(t *testing.T) {
		results := v.Struct(mandateForm{AccountNumber: "123", IFSC: "HDFC1123456", Method: "bank-account"})

		require.Len(t, results, 2)
		assert.Equal(t, "accountNumber", results[0].Field)
		assert.Equal(t, "Please enter a valid bank account number", results[0].Reason)
		assert.Equal(t, "ifsc", results[1].Field)
		assert.False(t, results[1].Valid)
	})

	t.Run("built-in tags", func(t *testing.T) {
		results := v.Struct(mandateForm{AccountNumber: "123456789", IFSC: "HDFC0123456", Method: "cheque"})

		require.Len(t, results, 1)
		assert.Equal(t, "method", results[0].Field)
		assert.Equal(t, "Must be one of: bank-account upi", results[0].Reason)
	})
}
