package entity

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type EnquiryStatus string

const (
	EnquiryStatusNew        EnquiryStatus = "new"
	EnquiryStatusInProgress EnquiryStatus = "in_progress"
	EnquiryStatusResponded  EnquiryStatus = "responded"
	EnquiryStatusClosed     EnquiryStatus = "closed"
)

var validEnquiryStatuses = map[EnquiryStatus]bool{
	EnquiryStatusNew:        true,
	EnquiryStatusInProgress: true,
	EnquiryStatusResponded:  true,
	EnquiryStatusClosed:     true,
}

// Normalize maps unrecognized status values to the default presentation
// instead of failing.
func (s EnquiryStatus) Normalize() EnquiryStatus {
	if validEnquiryStatuses[s] {
		return s
	}
	return EnquiryStatusNew
}

func IsValidEnquiryStatus(s string) bool {
	return validEnquiryStatuses[EnquiryStatus(s)]
}

type InquiryType string

const (
	InquiryGeneral       InquiryType = "general"
	InquiryParticipation InquiryType = "participation"
	InquirySponsorship   InquiryType = "sponsorship"
	InquiryMedia         InquiryType = "media"
	InquiryVolunteer     InquiryType = "volunteer"
	InquiryPartnership   InquiryType = "partnership"
)

var validInquiryTypes = map[InquiryType]bool{
	InquiryGeneral:       true,
	InquiryParticipation: true,
	InquirySponsorship:   true,
	InquiryMedia:         true,
	InquiryVolunteer:     true,
	InquiryPartnership:   true,
}

// EnquiryFlag names the four independent text-boolean flags on an enquiry.
type EnquiryFlag string

const (
	FlagRead     EnquiryFlag = "read"
	FlagArchived EnquiryFlag = "archived"
	FlagDeleted  EnquiryFlag = "deleted"
	FlagStarred  EnquiryFlag = "starred"
)

var validEnquiryFlags = map[EnquiryFlag]bool{
	FlagRead:     true,
	FlagArchived: true,
	FlagDeleted:  true,
	FlagStarred:  true,
}

func (f EnquiryFlag) Valid() bool {
	return validEnquiryFlags[f]
}

// Column returns the whitelisted column name for the flag. Flags are the only
// dynamically chosen column in update statements, so the mapping is explicit.
func (f EnquiryFlag) Column() (string, error) {
	if !f.Valid() {
		return "", fmt.Errorf("unknown enquiry flag: %s", f)
	}
	return string(f), nil
}

type Enquiry struct {
	Id            int            `db:"id" json:"id"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
	Status        EnquiryStatus  `db:"status" json:"status"`
	Read          TextBool       `db:"read" json:"read"`
	Archived      TextBool       `db:"archived" json:"archived"`
	Deleted       TextBool       `db:"deleted" json:"deleted"`
	Starred       TextBool       `db:"starred" json:"starred"`
	AttachmentURL sql.NullString `db:"attachment_url" json:"attachment_url"`
	EnquiryInsert
}

// Flag reads one of the four coerced flags.
func (e *Enquiry) Flag(f EnquiryFlag) bool {
	switch f {
	case FlagRead:
		return e.Read.Bool()
	case FlagArchived:
		return e.Archived.Bool()
	case FlagDeleted:
		return e.Deleted.Bool()
	case FlagStarred:
		return e.Starred.Bool()
	}
	return false
}

// SetFlag mutates one of the four coerced flags.
func (e *Enquiry) SetFlag(f EnquiryFlag, v bool) {
	switch f {
	case FlagRead:
		e.Read = TextBool(v)
	case FlagArchived:
		e.Archived = TextBool(v)
	case FlagDeleted:
		e.Deleted = TextBool(v)
	case FlagStarred:
		e.Starred = TextBool(v)
	}
}

type EnquiryInsert struct {
	Name        string      `db:"name" json:"name" valid:"required"`
	Email       string      `db:"email" json:"email" valid:"required,email"`
	Phone       string      `db:"phone" json:"phone" valid:"-"`
	Subject     string      `db:"subject" json:"subject" valid:"-"`
	Message     string      `db:"message" json:"message" valid:"required"`
	InquiryType InquiryType `db:"inquiry_type" json:"inquiry_type" valid:"-"`
}

func ValidateEnquiryInsert(e *EnquiryInsert) error {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	e.Phone = strings.TrimSpace(e.Phone)
	e.Subject = strings.TrimSpace(e.Subject)
	e.Message = strings.TrimSpace(e.Message)

	if e.Name == "" {
		return &ValidationError{Message: "name is required"}
	}
	if e.Email == "" {
		return &ValidationError{Message: "email is required"}
	}
	if !emailRegex.MatchString(e.Email) {
		return &ValidationError{Message: "invalid email format"}
	}
	if e.Message == "" {
		return &ValidationError{Message: "message is required"}
	}

	if len(e.Subject) > 200 {
		return &ValidationError{Message: "subject must not exceed 200 characters"}
	}
	if len(e.Message) > 5000 {
		return &ValidationError{Message: "message must not exceed 5000 characters"}
	}

	if e.InquiryType == "" {
		e.InquiryType = InquiryGeneral
	}
	if !validInquiryTypes[e.InquiryType] {
		return &ValidationError{Message: fmt.Sprintf("invalid inquiry type: %s", e.InquiryType)}
	}

	return nil
}
