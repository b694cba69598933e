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

type candidateStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Candidates() dependency.Candidates {
	return &candidateStore{
		MYSQLStore: ms,
	}
}

func generateCandidateReferenceCode(ctx context.Context, db dependency.DB) (string, error) {
	year := time.Now().Year()
	var maxNum int
	query := `SELECT COALESCE(MAX(CAST(SUBSTRING(reference_code, 11) AS UNSIGNED)), 0)
              FROM candidate
              WHERE reference_code LIKE ?`
	err := db.GetContext(ctx, &maxNum, query, fmt.Sprintf("CAND-%d-%%", year))
	if err != nil {
		return "", fmt.Errorf("can't get max reference code: %w", err)
	}
	return fmt.Sprintf("CAND-%d-%05d", year, maxNum+1), nil
}

// AddCandidate generates the reference code and inserts the application in
// one serializable transaction so codes stay unique under concurrency.
func (s *candidateStore) AddCandidate(ctx context.Context, c *entity.CandidateInsert, photoURL string) (string, error) {
	var ref string
	err := s.Tx(ctx, func(ctx context.Context, rep dependency.Repository) error {
		var err error
		ref, err = generateCandidateReferenceCode(ctx, rep.DB())
		if err != nil {
			return err
		}

		query := `
			INSERT INTO candidate (
				reference_code, first_name, last_name, email, phone, country,
				date_of_birth, height_cm, bio, photo_url, status
			)
			VALUES (
				:reference_code, :first_name, :last_name, :email, :phone, :country,
				:date_of_birth, :height_cm, :bio, :photo_url, :status
			)
		`
		err = ExecNamed(ctx, rep.DB(), query, map[string]any{
			"reference_code": ref,
			"first_name":     c.FirstName,
			"last_name":      c.LastName,
			"email":          c.Email,
			"phone":          c.Phone,
			"country":        c.Country,
			"date_of_birth":  c.DateOfBirth,
			"height_cm":      c.HeightCm,
			"bio":            c.Bio,
			"photo_url":      photoURL,
			"status":         entity.CandidateStatusSubmitted,
		})
		if err != nil {
			return fmt.Errorf("can't add candidate: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return ref, nil
}

func (s *candidateStore) GetCandidatesPaged(ctx context.Context, limit, offset int, orderFactor entity.OrderFactor, filters entity.CandidateFilters) ([]entity.Candidate, int, error) {
	whereConditions := []string{}
	args := map[string]any{
		"limit":  limit,
		"offset": offset,
	}

	if filters.Status != nil {
		whereConditions = append(whereConditions, "status = :status")
		args["status"] = *filters.Status
	}
	if filters.Country != "" {
		whereConditions = append(whereConditions, "country LIKE :country")
		args["country"] = "%" + filters.Country + "%"
	}
	if filters.Email != "" {
		whereConditions = append(whereConditions, "email LIKE :email")
		args["email"] = "%" + filters.Email + "%"
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
		SELECT id, reference_code, first_name, last_name, email, phone, country,
		       date_of_birth, height_cm, bio, photo_url, status, created_at, updated_at
		FROM candidate
		%s
		ORDER BY %s
		LIMIT :limit OFFSET :offset
	`, whereClause, orderByClause)

	candidates, err := QueryListNamed[entity.Candidate](ctx, s.DB(), query, args)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []entity.Candidate{}, 0, nil
		}
		return nil, 0, fmt.Errorf("can't get candidates: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM candidate %s`, whereClause)
	totalCount, err := QueryCountNamed(ctx, s.DB(), countQuery, args)
	if err != nil {
		return nil, 0, fmt.Errorf("can't get total count: %w", err)
	}

	return candidates, totalCount, nil
}

func (s *candidateStore) GetCandidateByReference(ctx context.Context, ref string) (entity.Candidate, error) {
	var c entity.Candidate
	query := `
		SELECT id, reference_code, first_name, last_name, email, phone, country,
		       date_of_birth, height_cm, bio, photo_url, status, created_at, updated_at
		FROM candidate
		WHERE reference_code = ?
	`
	err := s.DB().GetContext(ctx, &c, query, ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Candidate{}, gerr.ErrNotFound
		}
		return entity.Candidate{}, fmt.Errorf("can't get candidate: %w", err)
	}
	return c, nil
}

func (s *candidateStore) UpdateCandidateStatus(ctx context.Context, id int, status entity.CandidateStatus) error {
	if !entity.IsValidCandidateStatus(string(status)) {
		return fmt.Errorf("invalid candidate status: %s", status)
	}
	query := `UPDATE candidate SET status = :status, updated_at = NOW() WHERE id = :id`
	err := ExecNamed(ctx, s.DB(), query, map[string]any{
		"status": status,
		"id":     id,
	})
	if err != nil {
		return fmt.Errorf("can't update candidate status: %w", err)
	}
	return nil
}
