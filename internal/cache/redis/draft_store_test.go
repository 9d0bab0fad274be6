package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstledger/internal/domain"
)

// fakeRedis keeps strings and sets in memory and records TTLs.
type fakeRedis struct {
	values map[string]string
	sets   map[string]map[string]struct{}
	ttls   map[string]time.Duration
	fail   error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{
		values: map[string]string{},
		sets:   map[string]map[string]struct{}{},
		ttls:   map[string]time.Duration{},
	}
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd {
	if f.fail != nil {
		return goredis.NewStatusResult("", f.fail)
	}
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	v, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
		if _, ok := f.sets[k]; ok {
			delete(f.sets, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeRedis) SAdd(_ context.Context, key string, members ...interface{}) *goredis.IntCmd {
	set, ok := f.sets[key]
	if !ok {
		set = map[string]struct{}{}
		f.sets[key] = set
	}
	for _, m := range members {
		set[m.(string)] = struct{}{}
	}
	return goredis.NewIntResult(int64(len(members)), nil)
}

func (f *fakeRedis) SMembers(_ context.Context, key string) *goredis.StringSliceCmd {
	var out []string
	for m := range f.sets[key] {
		out = append(out, m)
	}
	return goredis.NewStringSliceResult(out, nil)
}

func (f *fakeRedis) Expire(_ context.Context, key string, expiration time.Duration) *goredis.BoolCmd {
	f.ttls[key] = expiration
	return goredis.NewBoolResult(true, nil)
}

func testPeriod() domain.ReturnPeriod {
	return domain.ReturnPeriod{
		CompanyID:  uuid.MustParse("6c1f1c64-1d0e-4f54-9c1f-8f0c8d0b2a11"),
		Month:      7,
		Year:       2024,
		ReturnType: domain.ReturnTypeGSTR3B,
	}
}

func TestDraftStore_SaveLoad(t *testing.T) {
	fake := newFakeRedis()
	store := newDraftStore(fake, "")
	ctx := context.Background()

	draft := &domain.Draft{
		Name:   "working",
		Period: testPeriod(),
		Manual: &domain.ManualSections{ITCReversed: domain.TaxFigures{IGST: decimal.NewFromInt(50)}},
		Return: domain.AssembledReturn{Status: domain.ReturnStatusPreviewed, LineCount: 3},
	}
	require.NoError(t, store.Save(ctx, draft, 24*time.Hour))

	key := "gstledger:draft:" + testPeriod().Key() + ":working"
	assert.Equal(t, 24*time.Hour, fake.ttls[key])
	assert.Equal(t, 24*time.Hour, fake.ttls["gstledger:draft:"+testPeriod().Key()+":index"])

	loaded, err := store.Load(ctx, testPeriod(), "working")
	require.NoError(t, err)
	assert.Equal(t, "working", loaded.Name)
	assert.Equal(t, domain.ReturnStatusPreviewed, loaded.Return.Status)
	require.NotNil(t, loaded.Manual)
	assert.True(t, loaded.Manual.ITCReversed.IGST.Equal(decimal.NewFromInt(50)))
}

func TestDraftStore_LoadMissing(t *testing.T) {
	store := newDraftStore(newFakeRedis(), "test:")

	_, err := store.Load(context.Background(), testPeriod(), "nope")
	assert.True(t, errors.Is(err, domain.ErrDraftNotFound))
}

func TestDraftStore_ListAndDelete(t *testing.T) {
	fake := newFakeRedis()
	store := newDraftStore(fake, "")
	ctx := context.Background()

	for _, name := range []string{"v2", "v1"} {
		require.NoError(t, store.Save(ctx, &domain.Draft{Name: name, Period: testPeriod()}, time.Hour))
	}
	names, err := store.List(ctx, testPeriod())
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, names)

	require.NoError(t, store.Delete(ctx, testPeriod()))
	assert.Empty(t, fake.values)
	assert.Empty(t, fake.sets)

	_, err = store.Load(ctx, testPeriod(), "v1")
	assert.True(t, errors.Is(err, domain.ErrDraftNotFound))
}

func TestDraftStore_SaveError(t *testing.T) {
	fake := newFakeRedis()
	fake.fail = errors.New("connection refused")
	store := newDraftStore(fake, "")

	err := store.Save(context.Background(), &domain.Draft{Name: "x", Period: testPeriod()}, time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
