package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/geofix/internal/domain"
	"github.com/couchcryptid/geofix/internal/lookup"
)

// fakeRedis implements the two commands the store uses. Any other command
// panics through the nil embedded interface.
type fakeRedis struct {
	goredis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func TestStore_RoundTrip(t *testing.T) {
	fake := newFakeRedis()
	s := NewStore(fake, DefaultPrefix, time.Hour)
	want := lookup.Entry{Coordinate: domain.Coordinate{Lat: -27.1, Lon: -52.6}, Found: true}

	require.NoError(t, s.Put(context.Background(), "chapeco|SC|primary", want))

	got, ok, err := s.Get(context.Background(), "chapeco|SC|primary")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	assert.Contains(t, fake.data, "geofix:lookup:chapeco|SC|primary")
	assert.Equal(t, time.Hour, fake.ttls["geofix:lookup:chapeco|SC|primary"])
}

func TestStore_NotFoundEntryRoundTrip(t *testing.T) {
	s := NewStore(newFakeRedis(), DefaultPrefix, 0)

	require.NoError(t, s.Put(context.Background(), "k", lookup.Entry{}))
	got, ok, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok, "a cached miss is still a stored entry")
	assert.False(t, got.Found)
}

func TestStore_Miss(t *testing.T) {
	s := NewStore(newFakeRedis(), DefaultPrefix, 0)

	_, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_CorruptValue(t *testing.T) {
	fake := newFakeRedis()
	fake.data[DefaultPrefix+"bad"] = "{not json"
	s := NewStore(fake, DefaultPrefix, 0)

	_, _, err := s.Get(context.Background(), "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode cached entry")
}

func TestStore_UnreachableServer(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	s := NewStore(client, DefaultPrefix, 0)

	_, _, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis get")

	err = s.Put(context.Background(), "k", lookup.Entry{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set")
}

func TestOpen_FailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, "127.0.0.1:1", "", 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}

func TestStore_CloseWithoutOwnedClient(t *testing.T) {
	s := NewStore(newFakeRedis(), DefaultPrefix, 0)
	assert.NoError(t, s.Close())
}
