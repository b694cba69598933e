package triage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/crownline/pageant-manager/internal/dependency"
	"github.com/crownline/pageant-manager/internal/entity"
	gerr "github.com/crownline/pageant-manager/internal/errors"
)

// Session owns the in-memory enquiry set for one operator and applies the
// triage workflow on top of an injected record store. Every write goes to the
// store first; memory is only updated after the store confirms, for single
// records and bulk actions alike, so the in-memory view can never show a
// state the store rejected.
//
// The session assumes a single operator. Concurrent operators race
// last-write-wins on the remote store; there is no version token.
type Session struct {
	mu       sync.Mutex
	store    dependency.Enquiries
	pageSize int

	records  []entity.Enquiry
	bucket   Bucket
	query    string
	page     int
	selected map[int]struct{}
	openId   int
}

func NewSession(store dependency.Enquiries, pageSize int) *Session {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Session{
		store:    store,
		pageSize: pageSize,
		bucket:   BucketAll,
		page:     1,
		selected: map[int]struct{}{},
	}
}

// Refresh re-fetches the full record set wholesale. On failure the prior set
// is retained so the operator keeps the last-known list.
func (s *Session) Refresh(ctx context.Context) error {
	records, err := s.store.GetEnquiries(ctx)
	if err != nil {
		return fmt.Errorf("can't refresh enquiries: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	return nil
}

func (s *Session) SetBucket(b Bucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bucket != b {
		s.bucket = b
		s.page = 1
	}
}

func (s *Session) SetQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.query != q {
		s.query = q
		s.page = 1
	}
}

func (s *Session) SetPage(p int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = p
}

// View is one rendered page of the triage list.
type View struct {
	Records    []entity.Enquiry `json:"records"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Total      int              `json:"total"`
	Bucket     Bucket           `json:"bucket"`
	Query      string           `json:"query,omitempty"`
	Counts     Counts           `json:"counts"`
	Selected   []int            `json:"selected,omitempty"`
}

// View computes the visible page from the current bucket, query and page.
// The page number is clamped, so shrinking the filtered set can never leave
// the operator on a silently empty page.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	filtered := Filter(s.records, s.bucket, s.query)
	totalPages := TotalPages(len(filtered), s.pageSize)
	page := ClampPage(s.page, totalPages)
	s.page = page

	return View{
		Records:    Page(filtered, page, s.pageSize),
		Page:       page,
		TotalPages: totalPages,
		Total:      len(filtered),
		Bucket:     s.bucket,
		Query:      s.query,
		Counts:     CountBuckets(s.records),
		Selected:   s.selectedLocked(),
	}
}

// ToggleSelect flips membership of one id in the selection and reports the
// resulting membership.
func (s *Session) ToggleSelect(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// SetSelection replaces the selection outright, for clients that track their
// own checkbox state and submit the final id list.
func (s *Session) SetSelection(ids []int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[int]struct{}, len(ids))
	for _, id := range ids {
		s.selected[id] = struct{}{}
	}
}

// TogglePageSelection implements the select-all checkbox: when the visible
// page is fully selected it deselects the page, otherwise it selects every
// visible record. Only the current page is affected, never the whole
// filtered set.
func (s *Session) TogglePageSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.viewLocked()
	if s.pageFullySelectedLocked(view.Records) {
		for i := range view.Records {
			delete(s.selected, view.Records[i].Id)
		}
		return
	}
	for i := range view.Records {
		s.selected[view.Records[i].Id] = struct{}{}
	}
}

// PageFullySelected reports whether every record on the visible page is
// selected, which drives the state of the select-all checkbox.
func (s *Session) PageFullySelected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageFullySelectedLocked(s.viewLocked().Records)
}

func (s *Session) pageFullySelectedLocked(visible []entity.Enquiry) bool {
	if len(visible) == 0 {
		return false
	}
	for i := range visible {
		if _, ok := s.selected[visible[i].Id]; !ok {
			return false
		}
	}
	return true
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[int]struct{}{}
}

func (s *Session) Selected() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedLocked()
}

func (s *Session) selectedLocked() []int {
	ids := make([]int, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// ApplyBulkFlag sets one flag to true on every selected record as a single
// batch store write. On success the in-memory records are updated and the
// selection is cleared; on failure nothing changes locally and the selection
// is preserved so the operator can retry. Bulk transitions are
// one-directional: there is no bulk un-set.
func (s *Session) ApplyBulkFlag(ctx context.Context, flag entity.EnquiryFlag) error {
	if !flag.Valid() {
		return fmt.Errorf("unknown enquiry flag: %s", flag)
	}

	s.mu.Lock()
	ids := s.selectedLocked()
	s.mu.Unlock()

	if len(ids) == 0 {
		return gerr.ErrNothingSelected
	}

	if err := s.store.SetFlagBulk(ctx, ids, flag); err != nil {
		return fmt.Errorf("bulk %s failed: %w", flag, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, id := range ids {
		if i := s.indexLocked(id); i >= 0 {
			s.records[i].SetFlag(flag, true)
			s.records[i].UpdatedAt = now
		}
	}
	s.selected = map[int]struct{}{}
	return nil
}

// Open selects a record for the detail view. Opening an unread record issues
// exactly one write marking it read; viewing implies read-acknowledgement and
// there is no way to mark it unread again. Re-opening an already-read record
// writes nothing.
func (s *Session) Open(ctx context.Context, id int) (entity.Enquiry, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return entity.Enquiry{}, gerr.ErrNotFound
	}
	unread := !s.records[i].Read.Bool()
	s.mu.Unlock()

	if unread {
		if err := s.store.SetFlag(ctx, id, entity.FlagRead, true); err != nil {
			return entity.Enquiry{}, fmt.Errorf("can't mark enquiry read: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i = s.indexLocked(id)
	if i < 0 {
		return entity.Enquiry{}, gerr.ErrNotFound
	}
	if unread {
		s.records[i].Read = true
		s.records[i].UpdatedAt = time.Now()
	}
	s.openId = id
	return s.records[i], nil
}

// OpenId returns the id of the record open in the detail view, 0 when none.
func (s *Session) OpenId() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openId
}

func (s *Session) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openId = 0
}

// Archive sets archived=true on a single record. Other flags are untouched.
func (s *Session) Archive(ctx context.Context, id int) error {
	return s.setFlagSingle(ctx, id, entity.FlagArchived, true)
}

// SoftDelete marks a record deleted. The caller must pass the explicit
// confirmation; the record stays queryable under the deleted bucket. When the
// deleted record was open in the detail view, the view is closed.
func (s *Session) SoftDelete(ctx context.Context, id int, confirmed bool) error {
	if !confirmed {
		return gerr.ErrConfirmationRequired
	}
	if err := s.setFlagSingle(ctx, id, entity.FlagDeleted, true); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openId == id {
		s.openId = 0
	}
	return nil
}

// ToggleStarred flips the starred flag, the only bidirectional single-record
// toggle. It returns the new value.
func (s *Session) ToggleStarred(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return false, gerr.ErrNotFound
	}
	next := !s.records[i].Starred.Bool()
	s.mu.Unlock()

	if err := s.setFlagSingle(ctx, id, entity.FlagStarred, next); err != nil {
		return false, err
	}
	return next, nil
}

// UpdateStatus moves the advisory workflow status of one record.
func (s *Session) UpdateStatus(ctx context.Context, id int, status entity.EnquiryStatus) error {
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("can't update status: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		s.records[i].Status = status
		s.records[i].UpdatedAt = time.Now()
	}
	return nil
}

func (s *Session) setFlagSingle(ctx context.Context, id int, flag entity.EnquiryFlag, value bool) error {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return gerr.ErrNotFound
	}
	s.mu.Unlock()

	if err := s.store.SetFlag(ctx, id, flag, value); err != nil {
		return fmt.Errorf("can't set %s: %w", flag, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		s.records[i].SetFlag(flag, value)
		s.records[i].UpdatedAt = time.Now()
	}
	return nil
}

func (s *Session) indexLocked(id int) int {
	for i := range s.records {
		if s.records[i].Id == id {
			return i
		}
	}
	return -1
}
