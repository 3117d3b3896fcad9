package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentfold/backend/internal/domain/shared"
)

// stubOutboxRepo keeps entries in a map. Only the methods the service
// touches have real behavior.
type stubOutboxRepo struct {
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newStubOutboxRepo(entries ...*shared.OutboxEntry) *stubOutboxRepo {
	r := &stubOutboxRepo{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return r
}

func (r *stubOutboxRepo) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *stubOutboxRepo) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	var pending []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusPending && len(pending) < limit {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (r *stubOutboxRepo) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *stubOutboxRepo) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var dead []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			dead = append(dead, e)
		}
	}
	total := int64(len(dead))

	start := (page - 1) * pageSize
	if start >= len(dead) {
		return nil, total, nil
	}
	end := min(start+pageSize, len(dead))
	return dead[start:end], total, nil
}

func (r *stubOutboxRepo) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	return r.entries[id], nil
}

func (r *stubOutboxRepo) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *stubOutboxRepo) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *stubOutboxRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *stubOutboxRepo) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func deadLetterEntry() *shared.OutboxEntry {
	now := time.Now()
	return &shared.OutboxEntry{
		ID:            uuid.New(),
		BusinessID:    uuid.New(),
		EventID:       uuid.New(),
		EventType:     "leasing.LeaseActivated",
		AggregateID:   uuid.New(),
		AggregateType: "Lease",
		Status:        shared.OutboxStatusDead,
		RetryCount:    5,
		MaxRetries:    5,
		LastError:     "bus unavailable",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func entryWithStatus(status shared.OutboxStatus) *shared.OutboxEntry {
	return &shared.OutboxEntry{ID: uuid.New(), Status: status}
}

func newOutboxServiceForTest(repo *stubOutboxRepo) *OutboxService {
	return NewOutboxService(repo, zap.NewNop())
}

func TestOutboxService_GetDeadLetterEntries(t *testing.T) {
	repo := newStubOutboxRepo(
		deadLetterEntry(),
		deadLetterEntry(),
		deadLetterEntry(),
		deadLetterEntry(),
		deadLetterEntry(),
		entryWithStatus(shared.OutboxStatusPending),
	)
	service := newOutboxServiceForTest(repo)

	result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, int64(5), result.Total)
	assert.Len(t, result.Entries, 5)
	assert.Equal(t, 1, result.TotalPages)
	for _, entry := range result.Entries {
		assert.Equal(t, "DEAD", entry.Status)
	}
}

func TestOutboxService_GetDeadLetterEntries_FilterDefaults(t *testing.T) {
	repo := newStubOutboxRepo(deadLetterEntry())
	service := newOutboxServiceForTest(repo)

	// Zero filter values fall back to page 1 / default size.
	result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Page)
	assert.Equal(t, defaultPageSize, result.PageSize)
	assert.Len(t, result.Entries, 1)
}

func TestOutboxService_RetryDeadEntry(t *testing.T) {
	dead := deadLetterEntry()
	service := newOutboxServiceForTest(newStubOutboxRepo(dead))

	result, err := service.RetryDeadEntry(context.Background(), dead.ID)
	require.NoError(t, err)

	assert.Equal(t, "PENDING", result.Status)
	assert.Equal(t, 0, result.RetryCount)
	assert.Empty(t, result.LastError)
}

func TestOutboxService_RetryDeadEntry_NotFound(t *testing.T) {
	service := newOutboxServiceForTest(newStubOutboxRepo())

	_, err := service.RetryDeadEntry(context.Background(), uuid.New())

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ENTRY_NOT_FOUND", domainErr.Code)
}

func TestOutboxService_RetryDeadEntry_NotDead(t *testing.T) {
	pending := entryWithStatus(shared.OutboxStatusPending)
	service := newOutboxServiceForTest(newStubOutboxRepo(pending))

	_, err := service.RetryDeadEntry(context.Background(), pending.ID)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestOutboxService_GetStats(t *testing.T) {
	repo := newStubOutboxRepo(
		entryWithStatus(shared.OutboxStatusPending),
		entryWithStatus(shared.OutboxStatusPending),
		entryWithStatus(shared.OutboxStatusProcessing),
		entryWithStatus(shared.OutboxStatusSent),
		entryWithStatus(shared.OutboxStatusSent),
		entryWithStatus(shared.OutboxStatusSent),
		entryWithStatus(shared.OutboxStatusFailed),
		entryWithStatus(shared.OutboxStatusDead),
	)
	service := newOutboxServiceForTest(repo)

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Processing)
	assert.Equal(t, int64(3), stats.Sent)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Dead)
	assert.Equal(t, int64(8), stats.Total)
}

func TestOutboxService_RetryAllDeadEntries(t *testing.T) {
	pending := entryWithStatus(shared.OutboxStatusPending)
	repo := newStubOutboxRepo(
		deadLetterEntry(),
		deadLetterEntry(),
		deadLetterEntry(),
		pending,
	)
	service := newOutboxServiceForTest(repo)

	count, err := service.RetryAllDeadEntries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	for _, entry := range repo.entries {
		assert.Equal(t, shared.OutboxStatusPending, entry.Status)
		assert.Equal(t, 0, entry.RetryCount)
	}
}
