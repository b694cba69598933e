package entity

import (
	"strings"
	"time"
)

type CandidateStatus string

const (
	CandidateStatusSubmitted   CandidateStatus = "submitted"
	CandidateStatusUnderReview CandidateStatus = "under_review"
	CandidateStatusApproved    CandidateStatus = "approved"
	CandidateStatusRejected    CandidateStatus = "rejected"
)

var validCandidateStatuses = map[CandidateStatus]bool{
	CandidateStatusSubmitted:   true,
	CandidateStatusUnderReview: true,
	CandidateStatusApproved:    true,
	CandidateStatusRejected:    true,
}

func IsValidCandidateStatus(s string) bool {
	return validCandidateStatuses[CandidateStatus(s)]
}

type Candidate struct {
	Id            int             `db:"id" json:"id"`
	ReferenceCode string          `db:"reference_code" json:"reference_code"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
	Status        CandidateStatus `db:"status" json:"status"`
	PhotoURL      string          `db:"photo_url" json:"photo_url"`
	CandidateInsert
}

type CandidateInsert struct {
	FirstName   string `db:"first_name" json:"first_name" valid:"required"`
	LastName    string `db:"last_name" json:"last_name" valid:"required"`
	Email       string `db:"email" json:"email" valid:"required,email"`
	Phone       string `db:"phone" json:"phone" valid:"required"`
	Country     string `db:"country" json:"country" valid:"required"`
	DateOfBirth string `db:"date_of_birth" json:"date_of_birth" valid:"required"`
	HeightCm    int    `db:"height_cm" json:"height_cm" valid:"-"`
	Bio         string `db:"bio" json:"bio" valid:"-"`
}

type CandidateFilters struct {
	Status  *CandidateStatus
	Country string
	Email   string
}

func ValidateCandidateInsert(c *CandidateInsert) error {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Country = strings.TrimSpace(c.Country)
	c.Bio = strings.TrimSpace(c.Bio)

	if c.FirstName == "" {
		return &ValidationError{Message: "first name is required"}
	}
	if c.LastName == "" {
		return &ValidationError{Message: "last name is required"}
	}
	if c.Email == "" {
		return &ValidationError{Message: "email is required"}
	}
	if !emailRegex.MatchString(c.Email) {
		return &ValidationError{Message: "invalid email format"}
	}
	if c.Phone == "" {
		return &ValidationError{Message: "phone is required"}
	}
	if c.Country == "" {
		return &ValidationError{Message: "country is required"}
	}
	if c.DateOfBirth == "" {
		return &ValidationError{Message: "date of birth is required"}
	}
	if _, err := time.Parse("2006-01-02", c.DateOfBirth); err != nil {
		return &ValidationError{Message: "date of birth must be YYYY-MM-DD"}
	}
	if c.HeightCm != 0 && (c.HeightCm < 120 || c.HeightCm > 230) {
		return &ValidationError{Message: "height must be between 120 and 230 cm"}
	}
	if len(c.Bio) > 3000 {
		return &ValidationError{Message: "bio must not exceed 3000 characters"}
	}

	return nil
}
