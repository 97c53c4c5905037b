package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/go-auth-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store so window behaviour can be exercised
// end to end without DynamoDB.
type fakeStore struct {
	records map[string]*domain.RateLimitRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]*domain.RateLimitRecord)}
}

func (s *fakeStore) Get(_ context.Context, key string) (*domain.RateLimitRecord, error) {
	rec, ok := s.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeStore) Create(_ context.Context, rec *domain.RateLimitRecord) error {
	if _, ok := s.records[rec.Key]; ok {
		return domain.ErrConflict
	}
	cp := *rec
	s.records[rec.Key] = &cp
	return nil
}

func (s *fakeStore) Reset(_ context.Context, key string, now int64) error {
	s.records[key].Count = 1
	s.records[key].LastReset = now
	return nil
}

func (s *fakeStore) Increment(_ context.Context, key string) (int, error) {
	s.records[key].Count++
	return s.records[key].Count, nil
}

// withClock pins the limiter to a controllable clock.
func withClock(l *Limiter, t *time.Time) *Limiter {
	l.now = func() time.Time { return *t }
	return l
}

func TestCheck_WindowSequence(t *testing.T) {
	store := newFakeStore()
	now := time.Unix(1700000000, 0)
	l := withClock(New(store), &now)
	ctx := context.Background()

	// 5 calls inside the window succeed with decreasing remaining.
	for i, want := range []int{4, 3, 2, 1, 0} {
		res, err := l.Check(ctx, "login:1.2.3.4", 5, time.Second)
		require.NoError(t, err, "call %d", i+1)
		assert.True(t, res.Allowed, "call %d", i+1)
		assert.Equal(t, want, res.Remaining, "call %d", i+1)
	}

	// 6th call inside the window is denied and does not increment.
	res, err := l.Check(ctx, "login:1.2.3.4", 5, time.Second)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, 5, store.records["login:1.2.3.4"].Count)

	// After the window elapses the counter resets.
	now = now.Add(time.Second + time.Millisecond)
	res, err = l.Check(ctx, "login:1.2.3.4", 5, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 4, res.Remaining)
	assert.Equal(t, 1, store.records["login:1.2.3.4"].Count)
}

func TestCheck_ExactWindowBoundary_Resets(t *testing.T) {
	store := newFakeStore()
	now := time.Unix(1700000000, 0)
	l := withClock(New(store), &now)
	ctx := context.Background()

	_, err := l.Check(ctx, "k", 1, time.Second)
	require.NoError(t, err)

	// Exactly lastReset+window: comparison is strict >, so still inside.
	now = now.Add(time.Second)
	res, err := l.Check(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	// One tick past the boundary starts a new window.
	now = now.Add(time.Millisecond)
	res, err = l.Check(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestCheck_KeysAreIndependent(t *testing.T) {
	store := newFakeStore()
	l := New(store)
	ctx := context.Background()

	res, err := l.Check(ctx, "login:a", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	res, err = l.Check(ctx, "login:a", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	res, err = l.Check(ctx, "login:b", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

// --- create-race fallback ---

type mockStore struct{ mock.Mock }

func (m *mockStore) Get(ctx context.Context, key string) (*domain.RateLimitRecord, error) {
	args := m.Called(ctx, key)
	if r, _ := args.Get(0).(*domain.RateLimitRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockStore) Create(ctx context.Context, rec *domain.RateLimitRecord) error {
	return m.Called(ctx, rec).Error(0)
}
func (m *mockStore) Reset(ctx context.Context, key string, now int64) error {
	return m.Called(ctx, key, now).Error(0)
}
func (m *mockStore) Increment(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func TestCheck_CreateRace_FallsBackToIncrement(t *testing.T) {
	ms := &mockStore{}
	ms.On("Get", mock.Anything, "k").Return(nil, domain.ErrNotFound)
	ms.On("Create", mock.Anything, mock.Anything).Return(domain.ErrConflict)
	ms.On("Increment", mock.Anything, "k").Return(2, nil)

	res, err := New(ms).Check(context.Background(), "k", 5, time.Minute)

	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 3, res.Remaining)
	ms.AssertExpectations(t)
}

func TestCheck_RemainingNeverNegative(t *testing.T) {
	ms := &mockStore{}
	ms.On("Get", mock.Anything, "k").Return(&domain.RateLimitRecord{Key: "k", Count: 4, LastReset: time.Now().UnixMilli()}, nil)
	// Two racers incremented concurrently and the count overshot the limit.
	ms.On("Increment", mock.Anything, "k").Return(6, nil)

	res, err := New(ms).Check(context.Background(), "k", 5, time.Minute)

	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
}
