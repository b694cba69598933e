package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type FranchiseStatus string

const (
	FranchiseStatusSubmitted FranchiseStatus = "submitted"
	FranchiseStatusInReview  FranchiseStatus = "in_review"
	FranchiseStatusApproved  FranchiseStatus = "approved"
	FranchiseStatusDeclined  FranchiseStatus = "declined"
)

var validFranchiseStatuses = map[FranchiseStatus]bool{
	FranchiseStatusSubmitted: true,
	FranchiseStatusInReview:  true,
	FranchiseStatusApproved:  true,
	FranchiseStatusDeclined:  true,
}

func IsValidFranchiseStatus(s string) bool {
	return validFranchiseStatuses[FranchiseStatus(s)]
}

// FranchiseApplication is a national-director franchise request for one
// country. At most one non-declined application per country is accepted.
type FranchiseApplication struct {
	Id            int             `db:"id" json:"id"`
	ReferenceCode string          `db:"reference_code" json:"reference_code"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
	Status        FranchiseStatus `db:"status" json:"status"`
	FranchiseApplicationInsert
}

type FranchiseApplicationInsert struct {
	ApplicantName   string          `db:"applicant_name" json:"applicant_name" valid:"required"`
	Email           string          `db:"email" json:"email" valid:"required,email"`
	Phone           string          `db:"phone" json:"phone" valid:"required"`
	Company         string          `db:"company" json:"company" valid:"-"`
	Country         string          `db:"country" json:"country" valid:"required"`
	ExperienceNotes string          `db:"experience_notes" json:"experience_notes" valid:"-"`
	ProposedFee     decimal.Decimal `db:"proposed_fee" json:"proposed_fee" valid:"-"`
}

func ValidateFranchiseApplicationInsert(f *FranchiseApplicationInsert) error {
	f.ApplicantName = strings.TrimSpace(f.ApplicantName)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Company = strings.TrimSpace(f.Company)
	f.Country = strings.TrimSpace(f.Country)
	f.ExperienceNotes = strings.TrimSpace(f.ExperienceNotes)

	if f.ApplicantName == "" {
		return &ValidationError{Message: "applicant name is required"}
	}
	if f.Email == "" {
		return &ValidationError{Message: "email is required"}
	}
	if !emailRegex.MatchString(f.Email) {
		return &ValidationError{Message: "invalid email format"}
	}
	if f.Phone == "" {
		return &ValidationError{Message: "phone is required"}
	}
	if f.Country == "" {
		return &ValidationError{Message: "country is required"}
	}
	if f.ProposedFee.IsNegative() {
		return &ValidationError{Message: "proposed fee must not be negative"}
	}
	if len(f.ExperienceNotes) > 5000 {
		return &ValidationError{Message: "experience notes must not exceed 5000 characters"}
	}

	return nil
}
