package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/crownline/pageant-manager/internal/dependency"
	"github.com/crownline/pageant-manager/internal/entity"
	gerr "github.com/crownline/pageant-manager/internal/errors"
)

type franchiseStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Franchise() dependency.Franchise {
	return &franchiseStore{
		MYSQLStore: ms,
	}
}

func generateFranchiseReferenceCode(ctx context.Context, db dependency.DB) (string, error) {
	year := time.Now().Year()
	var maxNum int
	query := `SELECT COALESCE(MAX(CAST(SUBSTRING(reference_code, 9) AS UNSIGNED)), 0)
              FROM franchise_application
              WHERE reference_code LIKE ?`
	err := db.GetContext(ctx, &maxNum, query, fmt.Sprintf("FR-%d-%%", year))
	if err != nil {
		return "", fmt.Errorf("can't get max reference code: %w", err)
	}
	return fmt.Sprintf("FR-%d-%05d", year, maxNum+1), nil
}

// AddFranchiseApplication runs the country check, reference generation and
// insert inside one serializable transaction so two concurrent applicants for
// the same country cannot both pass the check.
func (s *franchiseStore) AddFranchiseApplication(ctx context.Context, f *entity.FranchiseApplicationInsert) (string, error) {
	var ref string
	err := s.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		var taken int
		err := rep.DB().GetContext(ctx, &taken,
			`SELECT COUNT(*) FROM franchise_application WHERE country = ? AND status != ?`,
			f.Country, entity.FranchiseStatusDeclined)
		if err != nil {
			return fmt.Errorf("can't check country: %w", err)
		}
		if taken > 0 {
			return gerr.ErrCountryTaken
		}

		ref, err = generateFranchiseReferenceCode(ctx, rep.DB())
		if err != nil {
			return err
		}

		query := `
			INSERT INTO franchise_application (
				reference_code, applicant_name, email, phone, company, country,
				experience_notes, proposed_fee, status
			)
			VALUES (
				:reference_code, :applicant_name, :email, :phone, :company, :country,
				:experience_notes, :proposed_fee, :status
			)
		`
		err = ExecNamed(ctx, rep.DB(), query, map[string]any{
			"reference_code":   ref,
			"applicant_name":   f.ApplicantName,
			"email":            f.Email,
			"phone":            f.Phone,
			"company":          f.Company,
			"country":          f.Country,
			"experience_notes": f.ExperienceNotes,
			"proposed_fee":     f.ProposedFee,
			"status":           entity.FranchiseStatusSubmitted,
		})
		if err != nil {
			return fmt.Errorf("can't add franchise application: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return ref, nil
}

func (s *franchiseStore) GetFranchiseApplicationsPaged(ctx context.Context, limit, offset int, orderFactor entity.OrderFactor, status *entity.FranchiseStatus) ([]entity.FranchiseApplication, int, error) {
	whereConditions := []string{}
	args := map[string]any{
		"limit":  limit,
		"offset": offset,
	}

	if status != nil {
		whereConditions = append(whereConditions, "status = :status")
		args["status"] = *status
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	orderByClause := "created_at DESC"
	if orderFactor == entity.Ascending {
		orderByClause = "created_at ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, reference_code, applicant_name, email, phone, company, country,
		       experience_notes, proposed_fee, status, created_at, updated_at
		FROM franchise_application
		%s
		ORDER BY %s
		LIMIT :limit OFFSET :offset
	`, whereClause, orderByClause)

	applications, err := QueryListNamed[entity.FranchiseApplication](ctx, s.DB(), query, args)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []entity.FranchiseApplication{}, 0, nil
		}
		return nil, 0, fmt.Errorf("can't get franchise applications: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM franchise_application %s`, whereClause)
	totalCount, err := QueryCountNamed(ctx, s.DB(), countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("can't get total count: %w", err)
	}

	return applications, totalCount, nil
}

func (s *franchiseStore) GetFranchiseApplicationById(ctx context.Context, id int) (entity.FranchiseApplication, error) {
	var f entity.FranchiseApplication
	query := `
		SELECT id, reference_code, applicant_name, email, phone, company, country,
		       experience_notes, proposed_fee, status, created_at, updated_at
		FROM franchise_application
		WHERE id = ?
	`
	err := s.DB().GetContext(ctx, &f, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.FranchiseApplication{}, gerr.ErrNotFound
		}
		return entity.FranchiseApplication{}, fmt.Errorf("can't get franchise application: %w", err)
	}
	return f, nil
}

func (s *franchiseStore) UpdateFranchiseStatus(ctx context.Context, id int, status entity.FranchiseStatus) error {
	if !entity.IsValidFranchiseStatus(string(status)) {
		return fmt.Errorf("invalid franchise status: %s", status)
	}
	query := `UPDATE franchise_application SET status = :status, updated_at = NOW() WHERE id = :id`
	err := ExecNamed(ctx, s.DB(), query, map[string]any{
		"status": status,
		"id":     id,
	})
	if err != nil {
		return fmt.Errorf("can't update franchise status: %w", err)
	}
	return nil
}
