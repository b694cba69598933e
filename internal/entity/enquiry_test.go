package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnquiry() EnquiryInsert {
	return EnquiryInsert{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Phone:       "+371 20000000",
		Subject:     "Participation",
		Message:     "I would like to register for the national selection.",
		InquiryType: InquiryParticipation,
	}
}

func TestValidateEnquiryInsert(t *testing.T) {
	e := validEnquiry()
	require.NoError(t, ValidateEnquiryInsert(&e))

	e = validEnquiry()
	e.Name = "  "
	assert.Error(t, ValidateEnquiryInsert(&e))

	e = validEnquiry()
	e.Email = "not-an-email"
	assert.Error(t, ValidateEnquiryInsert(&e))

	e = validEnquiry()
	e.Message = ""
	assert.Error(t, ValidateEnquiryInsert(&e))

	e = validEnquiry()
	e.Message = strings.Repeat("x", 5001)
	assert.Error(t, ValidateEnquiryInsert(&e))

	e = validEnquiry()
	e.InquiryType = "billing"
	assert.Error(t, ValidateEnquiryInsert(&e))
}

func TestValidateEnquiryInsert_DefaultsInquiryType(t *testing.T) {
	e := validEnquiry()
	e.InquiryType = ""
	require.NoError(t, ValidateEnquiryInsert(&e))
	assert.Equal(t, InquiryGeneral, e.InquiryType)
}

func TestEnquiryStatusNormalize(t *testing.T) {
	assert.Equal(t, EnquiryStatusClosed, EnquiryStatusClosed.Normalize())
	assert.Equal(t, EnquiryStatusNew, EnquiryStatus("resolved").Normalize())
	assert.Equal(t, EnquiryStatusNew, EnquiryStatus("").Normalize())
}

func TestEnquiryFlag(t *testing.T) {
	for _, f := range []EnquiryFlag{FlagRead, FlagArchived, FlagDeleted, FlagStarred} {
		assert.True(t, f.Valid())
		col, err := f.Column()
		require.NoError(t, err)
		assert.Equal(t, string(f), col)
	}

	assert.False(t, EnquiryFlag("sent").Valid())
	_, err := EnquiryFlag("sent").Column()
	assert.Error(t, err)
}

func TestEnquiryFlagAccessors(t *testing.T) {
	var e Enquiry
	e.SetFlag(FlagStarred, true)
	assert.True(t, e.Flag(FlagStarred))
	assert.False(t, e.Flag(FlagRead))
	e.SetFlag(FlagStarred, false)
	assert.False(t, e.Flag(FlagStarred))
	assert.False(t, e.Flag(EnquiryFlag("sent")))
}
