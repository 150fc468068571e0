package directory

import "github.com/iancoleman/strcase"

// Space is a top-level workspace in the app.
type Space struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Type describes a kind of object within a space.
//
// Name is the user-facing display name and can change at any time; Key is the
// stable machine identifier (snake_case) that survives renames.
type Type struct {
	ID     string `json:"id"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Layout string `json:"layout,omitempty"`
}

// Object is a single item in a space. Properties is the server-defined,
// open-ended property bag; its schema is not known to this client.
type Object struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	TypeKey    string     `json:"type_key,omitempty"`
	Layout     string     `json:"layout,omitempty"`
	Properties Properties `json:"properties,omitempty"`
}

// List is a collection object (saved query or manual set) within a space.
type List struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Property is a field definition attached to a type.
type Property struct {
	ID     string `json:"id"`
	Key    string `json:"key,omitempty"`
	Name   string `json:"name"`
	Format string `json:"format,omitempty"`
}

// Tag is a select/multi-select option of a property.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Member is a participant of a space.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Template is a prefilled starting point for new objects of a type.
type Template struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// KeyForName derives the app's default machine key for a display name, e.g.
// "Meeting Notes" -> "meeting_notes". The app applies the same derivation
// when a type is created without an explicit key.
func KeyForName(name string) string {
	return strcase.ToSnake(name)
}
