package resolve

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/lodestone/pkg/apiclient"
	"github.com/hashicorp-forge/lodestone/pkg/directory"
)

// stubDirectory is a call-counting Directory with fixed collections.
type stubDirectory struct {
	spaces     []directory.Space
	types      []directory.Type
	objects    []directory.Object
	lists      []directory.List
	properties []directory.Property
	tags       []directory.Tag

	err error // returned by every method when set

	spaceCalls    atomic.Int64
	typeCalls     atomic.Int64
	objectCalls   atomic.Int64
	listCalls     atomic.Int64
	propertyCalls atomic.Int64
	tagCalls      atomic.Int64
}

func (s *stubDirectory) ListSpaces(ctx context.Context) ([]directory.Space, error) {
	s.spaceCalls.Add(1)
	return s.spaces, s.err
}

func (s *stubDirectory) ListTypes(ctx context.Context, spaceID string) ([]directory.Type, error) {
	s.typeCalls.Add(1)
	return s.types, s.err
}

func (s *stubDirectory) ListObjects(ctx context.Context, spaceID string) ([]directory.Object, error) {
	s.objectCalls.Add(1)
	return s.objects, s.err
}

func (s *stubDirectory) ListLists(ctx context.Context, spaceID string) ([]directory.List, error) {
	s.listCalls.Add(1)
	return s.lists, s.err
}

func (s *stubDirectory) ListProperties(ctx context.Context, typeID string) ([]directory.Property, error) {
	s.propertyCalls.Add(1)
	return s.properties, s.err
}

func (s *stubDirectory) ListTags(ctx context.Context, propertyID string) ([]directory.Tag, error) {
	s.tagCalls.Add(1)
	return s.tags, s.err
}

func newTestResolver(t *testing.T, dir Directory, caseInsensitive bool) *Resolver {
	t.Helper()
	r, err := New(Config{
		Directory:       dir,
		Cache:           NewCache(CacheConfig{}),
		CaseInsensitive: caseInsensitive,
	})
	require.NoError(t, err)
	return r
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Config{Cache: NewCache(CacheConfig{})})
	require.Error(t, err)

	_, err = New(Config{Directory: &stubDirectory{}})
	require.Error(t, err)
}

func TestResolver_SpaceEndToEnd(t *testing.T) {
	dir := &stubDirectory{
		spaces: []directory.Space{{ID: "sp_1", Name: "Work"}},
	}
	r := newTestResolver(t, dir, false)
	ctx := context.Background()

	id, err := r.Space(ctx, "Work")
	require.NoError(t, err)
	assert.Equal(t, "sp_1", id)

	// Second call is a cache hit: the list endpoint was hit exactly once.
	id, err = r.Space(ctx, "Work")
	require.NoError(t, err)
	assert.Equal(t, "sp_1", id)
	assert.Equal(t, int64(1), dir.spaceCalls.Load())
}

func TestResolver_LiteralIDShortcut(t *testing.T) {
	dir := &stubDirectory{}
	r := newTestResolver(t, dir, false)

	const literal = "550e8400-e29b-41d4-a716-446655440000"
	id, err := r.Space(context.Background(), literal)
	require.NoError(t, err)
	assert.Equal(t, literal, id)
	// No fetch was made.
	assert.Equal(t, int64(0), dir.spaceCalls.Load())

	id, err = r.Object(context.Background(), "sp_1", literal)
	require.NoError(t, err)
	assert.Equal(t, literal, id)
	assert.Equal(t, int64(0), dir.objectCalls.Load())
}

func TestResolver_NotFoundIsStable(t *testing.T) {
	dir := &stubDirectory{
		spaces: []directory.Space{{ID: "sp_1", Name: "Work"}},
	}
	r := newTestResolver(t, dir, false)
	ctx := context.Background()

	_, err := r.Space(ctx, "Nonexistent")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), `space "Nonexistent" not found`)

	// Failure is not cached: the second call fetches and fails again.
	_, err = r.Space(ctx, "Nonexistent")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, int64(2), dir.spaceCalls.Load())
}

func TestResolver_TransportErrorsPassThrough(t *testing.T) {
	authErr := &apiclient.AuthError{Message: "credential rejected by app (status 401)"}
	dir := &stubDirectory{err: authErr}
	r := newTestResolver(t, dir, false)

	_, err := r.Space(context.Background(), "Work")
	require.Error(t, err)
	assert.True(t, apiclient.IsAuthError(err), "auth errors must not be rewritten as NotFound")
	assert.False(t, IsNotFound(err))

	var got *apiclient.AuthError
	require.True(t, errors.As(err, &got))
	assert.Equal(t, authErr.Message, got.Message)
}

func TestResolver_TypeAndDescendants(t *testing.T) {
	dir := &stubDirectory{
		types:      []directory.Type{{ID: "ty_1", Key: "task", Name: "Task"}},
		properties: []directory.Property{{ID: "pr_1", Name: "Status"}},
		tags:       []directory.Tag{{ID: "tg_1", Name: "Urgent"}},
	}
	r := newTestResolver(t, dir, false)
	ctx := context.Background()

	typeID, err := r.Type(ctx, "sp_1", "Task")
	require.NoError(t, err)
	assert.Equal(t, "ty_1", typeID)

	propertyID, err := r.Property(ctx, typeID, "Status")
	require.NoError(t, err)
	assert.Equal(t, "pr_1", propertyID)

	tagID, err := r.Tag(ctx, propertyID, "Urgent")
	require.NoError(t, err)
	assert.Equal(t, "tg_1", tagID)

	// All three are now cache hits.
	_, err = r.Type(ctx, "sp_1", "Task")
	require.NoError(t, err)
	_, err = r.Property(ctx, typeID, "Status")
	require.NoError(t, err)
	_, err = r.Tag(ctx, propertyID, "Urgent")
	require.NoError(t, err)

	assert.Equal(t, int64(1), dir.typeCalls.Load())
	assert.Equal(t, int64(1), dir.propertyCalls.Load())
	assert.Equal(t, int64(1), dir.tagCalls.Load())
}

func TestResolver_TypeByKeyBypassesCache(t *testing.T) {
	dir := &stubDirectory{
		types: []directory.Type{{ID: "ty_1", Key: "task", Name: "Task"}},
	}
	r := newTestResolver(t, dir, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		id, err := r.TypeByKey(ctx, "sp_1", "task")
		require.NoError(t, err)
		assert.Equal(t, "ty_1", id)
	}
	// Keys are stable identifiers: every call performs a fresh list.
	assert.Equal(t, int64(3), dir.typeCalls.Load())

	_, err := r.TypeByKey(ctx, "sp_1", "missing_key")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestResolver_DuplicateNamesFirstMatchWins(t *testing.T) {
	dir := &stubDirectory{
		objects: []directory.Object{
			{ID: "ob_first", Name: "Notes"},
			{ID: "ob_second", Name: "Notes"},
		},
	}
	r := newTestResolver(t, dir, false)

	id, err := r.Object(context.Background(), "sp_1", "Notes")
	require.NoError(t, err)
	assert.Equal(t, "ob_first", id)
}

func TestResolver_CaseSensitivity(t *testing.T) {
	dir := &stubDirectory{
		spaces: []directory.Space{{ID: "sp_1", Name: "Work"}},
	}

	// Default: sensitive.
	r := newTestResolver(t, dir, false)
	_, err := r.Space(context.Background(), "work")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	// Opt-in: insensitive matching (cache keys stay literal).
	r = newTestResolver(t, dir, true)
	id, err := r.Space(context.Background(), "work")
	require.NoError(t, err)
	assert.Equal(t, "sp_1", id)
}

func TestResolver_InvalidationForcesRefetch(t *testing.T) {
	dir := &stubDirectory{
		spaces: []directory.Space{{ID: "sp_1", Name: "Work"}},
		types:  []directory.Type{{ID: "ty_1", Key: "task", Name: "Task"}},
	}
	r := newTestResolver(t, dir, false)
	ctx := context.Background()

	_, err := r.Space(ctx, "Work")
	require.NoError(t, err)
	_, err = r.Type(ctx, "sp_1", "Task")
	require.NoError(t, err)

	// Deleting the space invalidates both the space and its type entry.
	r.InvalidateSpace("sp_1")

	_, err = r.Space(ctx, "Work")
	require.NoError(t, err)
	_, err = r.Type(ctx, "sp_1", "Task")
	require.NoError(t, err)

	assert.Equal(t, int64(2), dir.spaceCalls.Load())
	assert.Equal(t, int64(2), dir.typeCalls.Load())
}

func TestResolver_ListResolution(t *testing.T) {
	dir := &stubDirectory{
		lists: []directory.List{{ID: "li_1", Name: "Inbox"}},
	}
	r := newTestResolver(t, dir, false)

	id, err := r.List(context.Background(), "sp_1", "Inbox")
	require.NoError(t, err)
	assert.Equal(t, "li_1", id)

	id, err = r.List(context.Background(), "sp_1", "Inbox")
	require.NoError(t, err)
	assert.Equal(t, "li_1", id)
	assert.Equal(t, int64(1), dir.listCalls.Load())
}

func TestResolver_ClearCache(t *testing.T) {
	dir := &stubDirectory{
		spaces: []directory.Space{{ID: "sp_1", Name: "Work"}},
	}
	r := newTestResolver(t, dir, false)
	ctx := context.Background()

	_, err := r.Space(ctx, "Work")
	require.NoError(t, err)

	r.ClearCache()

	_, err = r.Space(ctx, "Work")
	require.NoError(t, err)
	assert.Equal(t, int64(2), dir.spaceCalls.Load())
}
