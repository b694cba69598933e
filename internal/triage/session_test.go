package triage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/crownline/pageant-manager/internal/entity"
	gerr "github.com/crownline/pageant-manager/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

// fakeEnquiryStore is an in-memory record store with failure switches, used
// to drive the session without a database.
type fakeEnquiryStore struct {
	mu      sync.Mutex
	records []entity.Enquiry

	failGet  bool
	failSet  bool
	failBulk bool

	getCalls  int
	setCalls  int
	bulkCalls int
}

func (f *fakeEnquiryStore) GetEnquiries(ctx context.Context) ([]entity.Enquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.failGet {
		return nil, errStoreDown
	}
	out := make([]entity.Enquiry, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeEnquiryStore) GetEnquiryById(ctx context.Context, id int) (entity.Enquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.records {
		if e.Id == id {
			return e, nil
		}
	}
	return entity.Enquiry{}, gerr.ErrNotFound
}

func (f *fakeEnquiryStore) AddEnquiry(ctx context.Context, enq *entity.EnquiryInsert, attachmentURL string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := entity.Enquiry{Id: len(f.records) + 1, EnquiryInsert: *enq}
	f.records = append(f.records, e)
	return e.Id, nil
}

func (f *fakeEnquiryStore) SetFlag(ctx context.Context, id int, flag entity.EnquiryFlag, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.failSet {
		return errStoreDown
	}
	for i := range f.records {
		if f.records[i].Id == id {
			f.records[i].SetFlag(flag, value)
			return nil
		}
	}
	return gerr.ErrNotFound
}

func (f *fakeEnquiryStore) SetFlagBulk(ctx context.Context, ids []int, flag entity.EnquiryFlag) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bulkCalls++
	if f.failBulk {
		return errStoreDown
	}
	for _, id := range ids {
		for i := range f.records {
			if f.records[i].Id == id {
				f.records[i].SetFlag(flag, true)
			}
		}
	}
	return nil
}

func (f *fakeEnquiryStore) UpdateStatus(ctx context.Context, id int, status entity.EnquiryStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].Id == id {
			f.records[i].Status = status
			return nil
		}
	}
	return gerr.ErrNotFound
}

func newTestSession(t *testing.T, records ...entity.Enquiry) (*Session, *fakeEnquiryStore) {
	t.Helper()
	fake := &fakeEnquiryStore{records: records}
	s := NewSession(fake, DefaultPageSize)
	require.NoError(t, s.Refresh(context.Background()))
	return s, fake
}

func TestSession_RefreshFailureKeepsPriorSet(t *testing.T) {
	s, fake := newTestSession(t,
		enq(1, false, false, false, false),
		enq(2, true, false, false, false),
	)

	fake.failGet = true
	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreDown)

	// last-known list is still served
	view := s.View()
	assert.Equal(t, 2, view.Counts.All)
}

func TestSession_BulkActionAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestSession(t,
		enq(1, false, false, false, false),
		enq(2, false, false, false, false),
		enq(3, false, false, false, false),
	)

	s.SetSelection([]int{1, 2, 3})
	fake.failBulk = true

	err := s.ApplyBulkFlag(ctx, entity.FlagArchived)
	require.Error(t, err)

	// nothing applied locally, selection preserved for retry
	view := s.View()
	assert.Equal(t, 0, view.Counts.Archived)
	assert.Equal(t, []int{1, 2, 3}, s.Selected())

	fake.failBulk = false
	require.NoError(t, s.ApplyBulkFlag(ctx, entity.FlagArchived))

	view = s.View()
	assert.Equal(t, 3, view.Counts.Archived)
	assert.Empty(t, s.Selected())
	assert.Equal(t, 2, fake.bulkCalls)
}

func TestSession_BulkActionEmptySelection(t *testing.T) {
	s, fake := newTestSession(t, enq(1, false, false, false, false))
	err := s.ApplyBulkFlag(context.Background(), entity.FlagRead)
	assert.ErrorIs(t, err, gerr.ErrNothingSelected)
	assert.Equal(t, 0, fake.bulkCalls)
}

func TestSession_BulkActionRejectsUnknownFlag(t *testing.T) {
	s, _ := newTestSession(t, enq(1, false, false, false, false))
	s.SetSelection([]int{1})
	assert.Error(t, s.ApplyBulkFlag(context.Background(), entity.EnquiryFlag("sent")))
}

func TestSession_OpenMarksReadExactlyOnce(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestSession(t, enq(7, false, false, false, false))

	opened, err := s.Open(ctx, 7)
	require.NoError(t, err)
	assert.True(t, opened.Read.Bool())
	assert.Equal(t, 1, fake.setCalls)
	assert.Equal(t, 7, s.OpenId())

	// both the in-memory set and the detail copy reflect read=true
	view := s.View()
	assert.Equal(t, 1, view.Counts.Read)

	// a second open issues zero additional writes
	opened, err = s.Open(ctx, 7)
	require.NoError(t, err)
	assert.True(t, opened.Read.Bool())
	assert.Equal(t, 1, fake.setCalls)
}

func TestSession_OpenWriteFailureLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestSession(t, enq(7, false, false, false, false))
	fake.failSet = true

	_, err := s.Open(ctx, 7)
	require.Error(t, err)

	view := s.View()
	assert.Equal(t, 1, view.Counts.Unread)
	assert.Equal(t, 0, s.OpenId())
}

func TestSession_OpenUnknownId(t *testing.T) {
	s, fake := newTestSession(t, enq(1, false, false, false, false))
	_, err := s.Open(context.Background(), 99)
	assert.ErrorIs(t, err, gerr.ErrNotFound)
	assert.Equal(t, 0, fake.setCalls)
}

func TestSession_StarToggleRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestSession(t, enq(5, true, false, false, false))

	starred, err := s.ToggleStarred(ctx, 5)
	require.NoError(t, err)
	assert.True(t, starred)

	starred, err = s.ToggleStarred(ctx, 5)
	require.NoError(t, err)
	assert.False(t, starred)

	assert.Equal(t, 2, fake.setCalls)
	view := s.View()
	assert.False(t, view.Records[0].Starred.Bool())
}

func TestSession_ArchiveDoesNotClearOtherFlags(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, enq(4, true, false, false, true))

	require.NoError(t, s.Archive(ctx, 4))

	view := s.View()
	assert.True(t, view.Records[0].Archived.Bool())
	assert.True(t, view.Records[0].Read.Bool())
	assert.True(t, view.Records[0].Starred.Bool())
}

func TestSession_SoftDeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestSession(t, enq(4, false, false, false, false))

	err := s.SoftDelete(ctx, 4, false)
	assert.ErrorIs(t, err, gerr.ErrConfirmationRequired)
	assert.Equal(t, 0, fake.setCalls)

	require.NoError(t, s.SoftDelete(ctx, 4, true))
	view := s.View()
	assert.Equal(t, 1, view.Counts.Deleted)
}

func TestSession_SoftDeleteClosesOpenDetailView(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t,
		enq(1, true, false, false, false),
		enq(2, true, false, false, false),
	)

	_, err := s.Open(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, s.OpenId())

	require.NoError(t, s.SoftDelete(ctx, 1, true))
	assert.Equal(t, 0, s.OpenId())

	// deleting a record that is not open leaves the detail view alone
	_, err = s.Open(ctx, 2)
	require.NoError(t, err)
	require.NoError(t, s.SoftDelete(ctx, 2, true))
	assert.Equal(t, 0, s.OpenId())
}

func TestSession_SingleWriteFailurePreservesState(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestSession(t, enq(3, false, false, false, false))
	fake.failSet = true

	require.Error(t, s.Archive(ctx, 3))
	require.Error(t, s.SoftDelete(ctx, 3, true))
	_, err := s.ToggleStarred(ctx, 3)
	require.Error(t, err)

	view := s.View()
	assert.Equal(t, 0, view.Counts.Archived)
	assert.Equal(t, 0, view.Counts.Deleted)
	assert.False(t, view.Records[0].Starred.Bool())
}

func TestSession_PageSelection(t *testing.T) {
	records := make([]entity.Enquiry, 25)
	for i := range records {
		records[i] = enq(i+1, false, false, false, false)
	}
	fake := &fakeEnquiryStore{records: records}
	s := NewSession(fake, 20)
	require.NoError(t, s.Refresh(context.Background()))

	// select-all covers the visible page only, not the full filtered set
	s.TogglePageSelection()
	assert.Len(t, s.Selected(), 20)
	assert.True(t, s.PageFullySelected())

	// toggling again deselects the page
	s.TogglePageSelection()
	assert.Empty(t, s.Selected())
	assert.False(t, s.PageFullySelected())

	s.SetPage(2)
	s.TogglePageSelection()
	assert.Len(t, s.Selected(), 5)
}

func TestSession_ToggleSelect(t *testing.T) {
	s, _ := newTestSession(t, enq(1, false, false, false, false))

	assert.True(t, s.ToggleSelect(1))
	assert.Equal(t, []int{1}, s.Selected())
	assert.False(t, s.ToggleSelect(1))
	assert.Empty(t, s.Selected())

	s.ToggleSelect(1)
	s.ClearSelection()
	assert.Empty(t, s.Selected())
}

func TestSession_ViewClampsPageWhenFilteredSetShrinks(t *testing.T) {
	ctx := context.Background()
	records := make([]entity.Enquiry, 21)
	for i := range records {
		records[i] = enq(i+1, false, false, false, false)
	}
	fake := &fakeEnquiryStore{records: records}
	s := NewSession(fake, 20)
	require.NoError(t, s.Refresh(ctx))

	s.SetPage(2)
	view := s.View()
	require.Equal(t, 2, view.Page)
	require.Len(t, view.Records, 1)

	// soft-deleting the only record on page 2 shrinks the unread bucket
	s.SetBucket(BucketUnread)
	s.SetPage(2)
	require.NoError(t, s.SoftDelete(ctx, view.Records[0].Id, true))
	_, err := s.Open(ctx, 1)
	require.NoError(t, err)

	s.SetPage(2)
	view = s.View()
	assert.Equal(t, 1, view.Page)
	assert.NotEmpty(t, view.Records)
}

func TestSession_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t, enq(1, false, false, false, false))

	require.NoError(t, s.UpdateStatus(ctx, 1, entity.EnquiryStatusInProgress))
	view := s.View()
	assert.Equal(t, entity.EnquiryStatusInProgress, view.Records[0].Status)
}
