package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownline/pageant-manager/internal/entity"
	gerr "github.com/crownline/pageant-manager/internal/errors"
)

// setupTestStore connects to the database named by TEST_MYSQL_DSN and wipes
// the tables. Tests are skipped when the variable is unset so the suite can
// run without infrastructure.
func setupTestStore(t *testing.T) *MYSQLStore {
	t.Helper()
	dsn := os.Getenv("TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TEST_MYSQL_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	ms, err := New(ctx, Config{DSN: dsn, Automigrate: true})
	require.NoError(t, err)
	t.Cleanup(ms.Close)

	for _, table := range []string{"contact_enquiry", "candidate", "franchise_application", "news_article"} {
		_, err := ms.DB().ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}
	return ms
}

func enquiryInsert(name string) *entity.EnquiryInsert {
	return &entity.EnquiryInsert{
		Name:        name,
		Email:       name + "@example.com",
		Message:     "hello from " + name,
		InquiryType: entity.InquiryGeneral,
	}
}

func TestEnquiries_AddAndGet(t *testing.T) {
	ms := setupTestStore(t)
	ctx := context.Background()
	es := ms.Enquiries()

	id1, err := es.AddEnquiry(ctx, enquiryInsert("alice"), "")
	require.NoError(t, err)
	id2, err := es.AddEnquiry(ctx, enquiryInsert("bob"), "https://cdn.example.com/uploads/doc.pdf")
	require.NoError(t, err)

	got, err := es.GetEnquiryById(ctx, id1)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)
	assert.Equal(t, entity.EnquiryStatusNew, got.Status)
	assert.False(t, got.Read.Bool())
	assert.False(t, got.AttachmentURL.Valid)

	got, err = es.GetEnquiryById(ctx, id2)
	require.NoError(t, err)
	assert.True(t, got.AttachmentURL.Valid)

	all, err := es.GetEnquiries(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = es.GetEnquiryById(ctx, 99999)
	assert.ErrorIs(t, err, gerr.ErrNotFound)
}

func TestEnquiries_SetFlag(t *testing.T) {
	ms := setupTestStore(t)
	ctx := context.Background()
	es := ms.Enquiries()

	id, err := es.AddEnquiry(ctx, enquiryInsert("carol"), "")
	require.NoError(t, err)

	require.NoError(t, es.SetFlag(ctx, id, entity.FlagRead, true))
	got, err := es.GetEnquiryById(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Read.Bool())
	assert.False(t, got.Archived.Bool())

	require.NoError(t, es.SetFlag(ctx, id, entity.FlagStarred, true))
	require.NoError(t, es.SetFlag(ctx, id, entity.FlagStarred, false))
	got, err = es.GetEnquiryById(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.Starred.Bool())
	assert.True(t, got.Read.Bool())

	assert.ErrorIs(t, es.SetFlag(ctx, 99999, entity.FlagRead, true), gerr.ErrNotFound)
}

func TestEnquiries_SetFlagBulk(t *testing.T) {
	ms := setupTestStore(t)
	ctx := context.Background()
	es := ms.Enquiries()

	var ids []int
	for _, n := range []string{"a", "b", "c"} {
		id, err := es.AddEnquiry(ctx, enquiryInsert(n), "")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, es.SetFlagBulk(ctx, ids[:2], entity.FlagArchived))

	all, err := es.GetEnquiries(ctx)
	require.NoError(t, err)
	archived := 0
	for _, e := range all {
		if e.Archived.Bool() {
			archived++
		}
	}
	assert.Equal(t, 2, archived)

	assert.ErrorIs(t, es.SetFlagBulk(ctx, nil, entity.FlagArchived), gerr.ErrNothingSelected)
}

func TestEnquiries_UpdateStatus(t *testing.T) {
	ms := setupTestStore(t)
	ctx := context.Background()
	es := ms.Enquiries()

	id, err := es.AddEnquiry(ctx, enquiryInsert("dave"), "")
	require.NoError(t, err)

	require.NoError(t, es.UpdateStatus(ctx, id, entity.EnquiryStatusResponded))
	got, err := es.GetEnquiryById(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entity.EnquiryStatusResponded, got.Status)

	assert.Error(t, es.UpdateStatus(ctx, id, entity.EnquiryStatus("bogus")))
}

func TestCandidates_ReferenceCode(t *testing.T) {
	ms := setupTestStore(t)
	ctx := context.Background()
	cs := ms.Candidates()

	ref, err := cs.AddCandidate(ctx, &entity.CandidateInsert{
		FirstName:   "Ana",
		LastName:    "Silva",
		Email:       "ana@example.com",
		Phone:       "+351900000000",
		Country:     "Portugal",
		DateOfBirth: "2002-04-15",
	}, "https://cdn.example.com/candidates/x.jpg")
	require.NoError(t, err)
	assert.Regexp(t, `^CAND-\d{4}-\d{5}$`, ref)

	got, err := cs.GetCandidateByReference(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.FirstName)
	assert.Equal(t, entity.CandidateStatusSubmitted, got.Status)
}

func TestFranchise_CountryUniqueness(t *testing.T) {
	ms := setupTestStore(t)
	ctx := context.Background()
	fs := ms.Franchise()

	insert := func() *entity.FranchiseApplicationInsert {
		return &entity.FranchiseApplicationInsert{
			ApplicantName: "John Smith",
			Email:         "john@example.com",
			Phone:         "+15550000000",
			Country:       "Canada",
		}
	}

	ref, err := fs.AddFranchiseApplication(ctx, insert())
	require.NoError(t, err)
	assert.Regexp(t, `^FR-\d{4}-\d{5}$`, ref)

	_, err = fs.AddFranchiseApplication(ctx, insert())
	assert.ErrorIs(t, err, gerr.ErrCountryTaken)

	apps, total, err := fs.GetFranchiseApplicationsPaged(ctx, 10, 0, entity.Descending, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, apps, 1)

	// Declining frees the country for a new application.
	require.NoError(t, fs.UpdateFranchiseStatus(ctx, apps[0].Id, entity.FranchiseStatusDeclined))
	_, err = fs.AddFranchiseApplication(ctx, insert())
	require.NoError(t, err)
}

func TestNews_SlugConflictAndPublish(t *testing.T) {
	ms := setupTestStore(t)
	ctx := context.Background()
	ns := ms.News()

	id, err := ns.AddNewsArticle(ctx, &entity.NewsArticleInsert{
		Slug:  "finale-announced",
		Title: "Finale announced",
		Body:  "The finale will be held in October.",
	})
	require.NoError(t, err)

	_, err = ns.AddNewsArticle(ctx, &entity.NewsArticleInsert{
		Slug:  "finale-announced",
		Title: "Duplicate",
		Body:  "Duplicate slug.",
	})
	assert.ErrorIs(t, err, gerr.ErrSlugTaken)

	published, _, err := ns.GetNewsPaged(ctx, 10, 0, true)
	require.NoError(t, err)
	assert.Empty(t, published)

	require.NoError(t, ns.PublishNewsArticle(ctx, id, true))
	published, total, err := ns.GetNewsPaged(ctx, 10, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, published, 1)
	assert.True(t, published[0].Published.Bool())
	assert.True(t, published[0].PublishedAt.Valid)
}
