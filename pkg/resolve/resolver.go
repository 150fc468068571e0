// Package resolve turns human-readable entity names into the canonical IDs
// the app's API expects, backed by a TTL cache with cascading invalidation.
//
// Resolution is cache-aside: literal-ID shortcut first, then the cache, then
// a list fetch through the directory client whose first exact match is cached
// and returned. Duplicate names within a scope are not disambiguated — the
// first match in list order wins. This mirrors the app's own behavior and is
// a documented limitation, not a bug.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/lodestone/pkg/directory"
)

// NotFoundError reports that a name matched no entity in its scope. It is
// returned only after a fetch confirmed the name is absent; it is never used
// for transport or auth failures, which pass through unchanged.
type NotFoundError struct {
	Kind Kind
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Directory is the subset of the entity directory client the resolver needs.
// Tests substitute call-counting stubs.
type Directory interface {
	ListSpaces(ctx context.Context) ([]directory.Space, error)
	ListTypes(ctx context.Context, spaceID string) ([]directory.Type, error)
	ListObjects(ctx context.Context, spaceID string) ([]directory.Object, error)
	ListLists(ctx context.Context, spaceID string) ([]directory.List, error)
	ListProperties(ctx context.Context, typeID string) ([]directory.Property, error)
	ListTags(ctx context.Context, propertyID string) ([]directory.Tag, error)
}

// Config holds configuration for a Resolver.
type Config struct {
	Directory       Directory    // required
	Cache           *Cache       // required; constructed once at startup
	CaseInsensitive bool         // match names case-insensitively (cache keys stay literal)
	Logger          hclog.Logger // logger (optional)
}

// Resolver resolves names to IDs and owns cache invalidation for mutating
// callers. Methods are safe for concurrent use; no cache lock is held while a
// fetch is outstanding, so concurrent misses for the same key may fetch
// twice, which is harmless because inserting the same value is idempotent.
type Resolver struct {
	dir             Directory
	cache           *Cache
	caseInsensitive bool
	logger          hclog.Logger
}

// New creates a Resolver.
func New(config Config) (*Resolver, error) {
	if config.Directory == nil {
		return nil, fmt.Errorf("resolve: directory client is required")
	}
	if config.Cache == nil {
		return nil, fmt.Errorf("resolve: cache is required")
	}
	if config.Logger == nil {
		config.Logger = hclog.NewNullLogger()
	}

	return &Resolver{
		dir:             config.Directory,
		cache:           config.Cache,
		caseInsensitive: config.CaseInsensitive,
		logger:          config.Logger.Named("resolve"),
	}, nil
}

// firstMatch returns the ID of the first item whose name matches want, in
// list order. Duplicate names in scope resolve to whichever the app listed
// first.
func firstMatch[T any](items []T, want string, fold bool, name func(T) string, id func(T) string) (string, bool) {
	for _, item := range items {
		if matches(name(item), want, fold) {
			return id(item), true
		}
	}
	return "", false
}

func matches(a, b string, fold bool) bool {
	if fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Space resolves a space name to its ID.
func (r *Resolver) Space(ctx context.Context, name string) (string, error) {
	if IsCanonicalID(name) {
		return name, nil
	}
	if id, ok := r.cache.GetSpace(name); ok {
		r.logger.Debug("cache hit", "kind", KindSpace, "name", name)
		return id, nil
	}

	spaces, err := r.dir.ListSpaces(ctx)
	if err != nil {
		return "", err
	}

	id, ok := firstMatch(spaces, name, r.caseInsensitive,
		func(s directory.Space) string { return s.Name },
		func(s directory.Space) string { return s.ID })
	if !ok {
		return "", &NotFoundError{Kind: KindSpace, Name: name}
	}

	r.cache.PutSpace(name, id)
	return id, nil
}

// Type resolves a type's display name to its ID within a space.
func (r *Resolver) Type(ctx context.Context, spaceID, name string) (string, error) {
	if IsCanonicalID(name) {
		return name, nil
	}
	if id, ok := r.cache.GetType(spaceID, name); ok {
		r.logger.Debug("cache hit", "kind", KindType, "space_id", spaceID, "name", name)
		return id, nil
	}

	types, err := r.dir.ListTypes(ctx, spaceID)
	if err != nil {
		return "", err
	}

	id, ok := firstMatch(types, name, r.caseInsensitive,
		func(t directory.Type) string { return t.Name },
		func(t directory.Type) string { return t.ID })
	if !ok {
		return "", &NotFoundError{Kind: KindType, Name: name}
	}

	r.cache.PutType(spaceID, name, id)
	return id, nil
}

// TypeByKey resolves a type by its stable machine key. Keys are already
// stable identifiers, so this never touches the cache: every call performs a
// fresh list and match.
func (r *Resolver) TypeByKey(ctx context.Context, spaceID, key string) (string, error) {
	types, err := r.dir.ListTypes(ctx, spaceID)
	if err != nil {
		return "", err
	}

	id, ok := firstMatch(types, key, false,
		func(t directory.Type) string { return t.Key },
		func(t directory.Type) string { return t.ID })
	if !ok {
		return "", &NotFoundError{Kind: KindType, Name: key}
	}
	return id, nil
}

// Object resolves an object name to its ID within a space.
func (r *Resolver) Object(ctx context.Context, spaceID, name string) (string, error) {
	if IsCanonicalID(name) {
		return name, nil
	}
	if id, ok := r.cache.GetObject(spaceID, name); ok {
		r.logger.Debug("cache hit", "kind", KindObject, "space_id", spaceID, "name", name)
		return id, nil
	}

	objects, err := r.dir.ListObjects(ctx, spaceID)
	if err != nil {
		return "", err
	}

	id, ok := firstMatch(objects, name, r.caseInsensitive,
		func(o directory.Object) string { return o.Name },
		func(o directory.Object) string { return o.ID })
	if !ok {
		return "", &NotFoundError{Kind: KindObject, Name: name}
	}

	r.cache.PutObject(spaceID, name, id)
	return id, nil
}

// List resolves a list (collection object) name to its ID within a space.
func (r *Resolver) List(ctx context.Context, spaceID, name string) (string, error) {
	if IsCanonicalID(name) {
		return name, nil
	}
	if id, ok := r.cache.GetList(spaceID, name); ok {
		r.logger.Debug("cache hit", "kind", KindList, "space_id", spaceID, "name", name)
		return id, nil
	}

	lists, err := r.dir.ListLists(ctx, spaceID)
	if err != nil {
		return "", err
	}

	id, ok := firstMatch(lists, name, r.caseInsensitive,
		func(l directory.List) string { return l.Name },
		func(l directory.List) string { return l.ID })
	if !ok {
		return "", &NotFoundError{Kind: KindList, Name: name}
	}

	r.cache.PutList(spaceID, name, id)
	return id, nil
}

// Property resolves a property name to its ID within a type. Note the scope
// is the type, not the space.
func (r *Resolver) Property(ctx context.Context, typeID, name string) (string, error) {
	if IsCanonicalID(name) {
		return name, nil
	}
	if id, ok := r.cache.GetProperty(typeID, name); ok {
		r.logger.Debug("cache hit", "kind", KindProperty, "type_id", typeID, "name", name)
		return id, nil
	}

	properties, err := r.dir.ListProperties(ctx, typeID)
	if err != nil {
		return "", err
	}

	id, ok := firstMatch(properties, name, r.caseInsensitive,
		func(p directory.Property) string { return p.Name },
		func(p directory.Property) string { return p.ID })
	if !ok {
		return "", &NotFoundError{Kind: KindProperty, Name: name}
	}

	r.cache.PutProperty(typeID, name, id)
	return id, nil
}

// Tag resolves a tag name to its ID within a property.
func (r *Resolver) Tag(ctx context.Context, propertyID, name string) (string, error) {
	if IsCanonicalID(name) {
		return name, nil
	}
	if id, ok := r.cache.GetTag(propertyID, name); ok {
		r.logger.Debug("cache hit", "kind", KindTag, "property_id", propertyID, "name", name)
		return id, nil
	}

	tags, err := r.dir.ListTags(ctx, propertyID)
	if err != nil {
		return "", err
	}

	id, ok := firstMatch(tags, name, r.caseInsensitive,
		func(t directory.Tag) string { return t.Name },
		func(t directory.Tag) string { return t.ID })
	if !ok {
		return "", &NotFoundError{Kind: KindTag, Name: name}
	}

	r.cache.PutTag(propertyID, name, id)
	return id, nil
}

// Invalidation hooks. Callers that mutate an entity must call the matching
// hook after the mutation succeeds: invalidate the old name after a rename,
// cascade after deleting an entity with descendants. Creation needs no hook;
// a fresh entity becomes visible on the next list fetch.

// InvalidateSpace cascades over the space and its types, objects, and lists.
func (r *Resolver) InvalidateSpace(spaceID string) {
	r.cache.InvalidateSpace(spaceID)
}

// InvalidateType cascades over the type, its properties, and their tags.
func (r *Resolver) InvalidateType(spaceID, typeID string) {
	r.cache.InvalidateType(spaceID, typeID)
}

// InvalidateProperty cascades over the property and its tags.
func (r *Resolver) InvalidateProperty(typeID, propertyID string) {
	r.cache.InvalidateProperty(typeID, propertyID)
}

// InvalidateObject removes one object entry under its cached (old) name.
func (r *Resolver) InvalidateObject(spaceID, name string) {
	r.cache.InvalidateObject(spaceID, name)
}

// InvalidateList removes one list entry under its cached (old) name.
func (r *Resolver) InvalidateList(spaceID, name string) {
	r.cache.InvalidateList(spaceID, name)
}

// InvalidateTag removes one tag entry under its cached (old) name.
func (r *Resolver) InvalidateTag(propertyID, name string) {
	r.cache.InvalidateTag(propertyID, name)
}

// ClearCache flushes every cached entry.
func (r *Resolver) ClearCache() {
	r.cache.Clear()
}
