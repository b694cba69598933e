package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crownline/pageant-manager/internal/dependency"
	"github.com/crownline/pageant-manager/internal/entity"
	gerr "github.com/crownline/pageant-manager/internal/errors"
)

type enquiryStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Enquiries() dependency.Enquiries {
	return &enquiryStore{
		MYSQLStore: ms,
	}
}

// enquiryColumns lists every column of contact_enquiry. The flag columns are
// backtick-quoted because `read` is a reserved word in MySQL.
const enquiryColumns = "id, name, email, phone, subject, message, inquiry_type, status, " +
	"`read`, archived, deleted, starred, attachment_url, created_at, updated_at"

func (s *enquiryStore) GetEnquiries(ctx context.Context) ([]entity.Enquiry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM contact_enquiry
		ORDER BY created_at DESC
	`, enquiryColumns)

	enquiries, err := QueryListNamed[entity.Enquiry](ctx, s.DB(), query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("can't get enquiries: %w", err)
	}
	if enquiries == nil {
		enquiries = []entity.Enquiry{}
	}
	return enquiries, nil
}

func (s *enquiryStore) GetEnquiryById(ctx context.Context, id int) (entity.Enquiry, error) {
	var enq entity.Enquiry
	query := fmt.Sprintf(`
		SELECT %s
		FROM contact_enquiry
		WHERE id = ?
	`, enquiryColumns)

	err := s.DB().GetContext(ctx, &enq, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Enquiry{}, gerr.ErrNotFound
		}
		return entity.Enquiry{}, fmt.Errorf("can't get enquiry: %w", err)
	}
	return enq, nil
}

func (s *enquiryStore) AddEnquiry(ctx context.Context, enq *entity.EnquiryInsert, attachmentURL string) (int, error) {
	if enq.InquiryType == "" {
		enq.InquiryType = entity.InquiryGeneral
	}

	var attachment sql.NullString
	if attachmentURL != "" {
		attachment = sql.NullString{String: attachmentURL, Valid: true}
	}

	query := "INSERT INTO contact_enquiry " +
		"(name, email, phone, subject, message, inquiry_type, status, `read`, archived, deleted, starred, attachment_url) " +
		"VALUES (:name, :email, :phone, :subject, :message, :inquiry_type, :status, 'false', 'false', 'false', 'false', :attachment_url)"

	id, err := ExecNamedLastId(ctx, s.DB(), query, map[string]any{
		"name":           enq.Name,
		"email":          enq.Email,
		"phone":          enq.Phone,
		"subject":        enq.Subject,
		"message":        enq.Message,
		"inquiry_type":   enq.InquiryType,
		"status":         entity.EnquiryStatusNew,
		"attachment_url": attachment,
	})
	if err != nil {
		return 0, fmt.Errorf("can't add enquiry: %w", err)
	}
	return id, nil
}

func (s *enquiryStore) SetFlag(ctx context.Context, id int, flag entity.EnquiryFlag, value bool) error {
	col, err := flag.Column()
	if err != nil {
		return err
	}

	text := "false"
	if value {
		text = "true"
	}

	query := fmt.Sprintf("UPDATE contact_enquiry SET `%s` = :value, updated_at = NOW() WHERE id = :id", col)
	res, err := s.DB().NamedExecContext(ctx, query, map[string]any{
		"value": text,
		"id":    id,
	})
	if err != nil {
		return fmt.Errorf("can't set flag %s: %w", flag, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		// RowsAffected is 0 for both a missing row and a no-op write, so
		// distinguish with a lookup.
		if _, gerrr := s.GetEnquiryById(ctx, id); gerrr != nil {
			return gerrr
		}
	}
	return nil
}

func (s *enquiryStore) SetFlagBulk(ctx context.Context, ids []int, flag entity.EnquiryFlag) error {
	if len(ids) == 0 {
		return gerr.ErrNothingSelected
	}
	col, err := flag.Column()
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE contact_enquiry SET `%s` = 'true', updated_at = NOW() WHERE id IN (:ids)", col)
	return ExecNamed(ctx, s.DB(), query, map[string]any{
		"ids": ids,
	})
}

func (s *enquiryStore) UpdateStatus(ctx context.Context, id int, status entity.EnquiryStatus) error {
	if !entity.IsValidEnquiryStatus(string(status)) {
		return fmt.Errorf("invalid enquiry status: %s", status)
	}
	query := `UPDATE contact_enquiry SET status = :status, updated_at = NOW() WHERE id = :id`
	err := ExecNamed(ctx, s.DB(), query, map[string]any{
		"status": status,
		"id":     id,
	})
	if err != nil {
		return fmt.Errorf("can't update status: %w", err)
	}
	return nil
}
