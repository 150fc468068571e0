package resolve

import (
	"time"
)

// Kind identifies one of the six cached entity kinds.
type Kind string

const (
	KindSpace    Kind = "space"
	KindType     Kind = "type"
	KindObject   Kind = "object"
	KindList     Kind = "list"
	KindProperty Kind = "property"
	KindTag      Kind = "tag"
)

// cascades is the parent/child table driving cascading invalidation: when an
// entity of the key kind is invalidated, every cached entry of the listed
// kinds scoped under it is removed as well. Type→Property chains one further
// hop to Tag because property invalidation itself cascades.
var cascades = map[Kind][]Kind{
	KindSpace:    {KindType, KindObject, KindList},
	KindType:     {KindProperty},
	KindProperty: {KindTag},
}

// DefaultTTL is the entry lifetime used when none is configured.
const DefaultTTL = 300 * time.Second

// scopedKey addresses an entry resolved within a parent scope: the parent is
// a space ID for types/objects/lists, a type ID for properties, and a
// property ID for tags. Space entries are keyed by bare name.
type scopedKey struct {
	parent string
	name   string
}

// CacheConfig holds configuration for a Cache.
type CacheConfig struct {
	TTL   time.Duration    // entry lifetime (default: DefaultTTL)
	Clock func() time.Time // overridable for tests (default: time.Now)
}

// Cache maps human-readable names to entity IDs for the six entity kinds,
// each entry expiring TTL after insertion. It is the unit of shared mutable
// state in the resolver stack and is safe for concurrent use; the six kind
// maps are independent, so operations on different kinds never contend.
//
// Lookups never block on I/O: a miss returns immediately and the caller
// decides whether to fetch.
type Cache struct {
	spaces     *ttlStore[string, string]
	types      *ttlStore[scopedKey, string]
	objects    *ttlStore[scopedKey, string]
	lists      *ttlStore[scopedKey, string]
	properties *ttlStore[scopedKey, string]
	tags       *ttlStore[scopedKey, string]
}

// NewCache creates an empty cache. Construct one per process at startup and
// inject it into the Resolver; there is no package-level instance.
func NewCache(config CacheConfig) *Cache {
	if config.TTL == 0 {
		config.TTL = DefaultTTL
	}

	return &Cache{
		spaces:     newTTLStore[string, string](config.TTL, config.Clock),
		types:      newTTLStore[scopedKey, string](config.TTL, config.Clock),
		objects:    newTTLStore[scopedKey, string](config.TTL, config.Clock),
		lists:      newTTLStore[scopedKey, string](config.TTL, config.Clock),
		properties: newTTLStore[scopedKey, string](config.TTL, config.Clock),
		tags:       newTTLStore[scopedKey, string](config.TTL, config.Clock),
	}
}

// scopedStore maps a kind to its store. Space is keyed differently and is
// handled by its callers directly.
func (c *Cache) scopedStore(kind Kind) *ttlStore[scopedKey, string] {
	switch kind {
	case KindType:
		return c.types
	case KindObject:
		return c.objects
	case KindList:
		return c.lists
	case KindProperty:
		return c.properties
	case KindTag:
		return c.tags
	default:
		panic("resolve: kind has no scoped store: " + string(kind))
	}
}

// GetSpace returns the cached ID for a space name.
func (c *Cache) GetSpace(name string) (string, bool) {
	return c.spaces.get(name)
}

// PutSpace caches a space name → ID mapping.
func (c *Cache) PutSpace(name, id string) {
	c.spaces.put(name, id)
}

// GetType returns the cached ID for a type name within a space.
func (c *Cache) GetType(spaceID, name string) (string, bool) {
	return c.types.get(scopedKey{spaceID, name})
}

// PutType caches a type name → ID mapping within a space.
func (c *Cache) PutType(spaceID, name, id string) {
	c.types.put(scopedKey{spaceID, name}, id)
}

// GetObject returns the cached ID for an object name within a space.
func (c *Cache) GetObject(spaceID, name string) (string, bool) {
	return c.objects.get(scopedKey{spaceID, name})
}

// PutObject caches an object name → ID mapping within a space.
func (c *Cache) PutObject(spaceID, name, id string) {
	c.objects.put(scopedKey{spaceID, name}, id)
}

// GetList returns the cached ID for a list name within a space.
func (c *Cache) GetList(spaceID, name string) (string, bool) {
	return c.lists.get(scopedKey{spaceID, name})
}

// PutList caches a list name → ID mapping within a space.
func (c *Cache) PutList(spaceID, name, id string) {
	c.lists.put(scopedKey{spaceID, name}, id)
}

// GetProperty returns the cached ID for a property name within a type.
func (c *Cache) GetProperty(typeID, name string) (string, bool) {
	return c.properties.get(scopedKey{typeID, name})
}

// PutProperty caches a property name → ID mapping within a type.
func (c *Cache) PutProperty(typeID, name, id string) {
	c.properties.put(scopedKey{typeID, name}, id)
}

// GetTag returns the cached ID for a tag name within a property.
func (c *Cache) GetTag(propertyID, name string) (string, bool) {
	return c.tags.get(scopedKey{propertyID, name})
}

// PutTag caches a tag name → ID mapping within a property.
func (c *Cache) PutTag(propertyID, name, id string) {
	c.tags.put(scopedKey{propertyID, name}, id)
}

// InvalidateSpace removes the space's own name entry and, per the cascade
// table, every type, object, and list entry scoped under it.
func (c *Cache) InvalidateSpace(spaceID string) {
	c.spaces.removeWhere(func(_ string, id string) bool {
		return id == spaceID
	})

	for _, kind := range cascades[KindSpace] {
		c.scopedStore(kind).removeWhere(func(k scopedKey, _ string) bool {
			return k.parent == spaceID
		})
	}
}

// InvalidateType removes the type's entry and every property under it, and
// chains to the tags of each removed property (the two-hop cascade).
func (c *Cache) InvalidateType(spaceID, typeID string) {
	c.types.removeWhere(func(k scopedKey, id string) bool {
		return k.parent == spaceID && id == typeID
	})

	removedProps := c.properties.removeWhere(func(k scopedKey, _ string) bool {
		return k.parent == typeID
	})
	for _, propertyID := range removedProps {
		c.tags.removeWhere(func(k scopedKey, _ string) bool {
			return k.parent == propertyID
		})
	}
}

// InvalidateProperty removes the property's entry and every tag under it.
func (c *Cache) InvalidateProperty(typeID, propertyID string) {
	c.properties.removeWhere(func(k scopedKey, id string) bool {
		return k.parent == typeID && id == propertyID
	})
	c.tags.removeWhere(func(k scopedKey, _ string) bool {
		return k.parent == propertyID
	})
}

// InvalidateObject removes a single object entry by its cached name.
func (c *Cache) InvalidateObject(spaceID, name string) {
	c.objects.remove(scopedKey{spaceID, name})
}

// InvalidateList removes a single list entry by its cached name.
func (c *Cache) InvalidateList(spaceID, name string) {
	c.lists.remove(scopedKey{spaceID, name})
}

// InvalidateTag removes a single tag entry by its cached name.
func (c *Cache) InvalidateTag(propertyID, name string) {
	c.tags.remove(scopedKey{propertyID, name})
}

// Clear empties every kind map. Used for a manual flush and as the
// conservative fallback after a mutation whose invalidation scope is unclear.
func (c *Cache) Clear() {
	c.spaces.clear()
	c.types.clear()
	c.objects.clear()
	c.lists.clear()
	c.properties.clear()
	c.tags.clear()
}
