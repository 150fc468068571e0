package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/lodestone/pkg/apiclient"
)

type staticTokens struct{}

func (staticTokens) Load() (string, bool, error) {
	return "tok_test", true, nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	mockServer := httptest.NewServer(handler)
	t.Cleanup(mockServer.Close)

	api := apiclient.New(apiclient.Config{
		BaseURL: mockServer.URL,
		Tokens:  staticTokens{},
	})
	return NewClient(api, nil), mockServer
}

func writePage[T any](w http.ResponseWriter, data []T, hasMore bool) {
	var p page[T]
	p.Data = data
	p.Pagination.HasMore = hasMore
	json.NewEncoder(w).Encode(p)
}

func TestClient_ListSpaces(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/spaces", r.URL.Path)
		writePage(w, []Space{
			{ID: "sp_1", Name: "Work"},
			{ID: "sp_2", Name: "Personal"},
		}, false)
	})

	spaces, err := client.ListSpaces(context.Background())
	require.NoError(t, err)
	require.Len(t, spaces, 2)
	assert.Equal(t, "sp_1", spaces[0].ID)
	assert.Equal(t, "Personal", spaces[1].Name)
}

func TestClient_ListObjectsPaginates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/spaces/sp_1/objects", r.URL.Path)
		offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
		require.NoError(t, err)

		switch offset {
		case 0:
			writePage(w, []Object{{ID: "ob_1", Name: "First"}}, true)
		case 1:
			writePage(w, []Object{{ID: "ob_2", Name: "Second"}}, false)
		default:
			t.Fatalf("unexpected offset %d", offset)
		}
	})

	objects, err := client.ListObjects(context.Background(), "sp_1")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "ob_1", objects[0].ID)
	assert.Equal(t, "ob_2", objects[1].ID)
}

func TestClient_ListTagsPath(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/properties/pr_9/tags", r.URL.Path)
		writePage(w, []Tag{{ID: "tg_1", Name: "Urgent", Color: "red"}}, false)
	})

	tags, err := client.ListTags(context.Background(), "pr_9")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Urgent", tags[0].Name)
}

func TestClient_ObjectLifecycle(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "POST" && r.URL.Path == "/v1/spaces/sp_1/objects":
			var req CreateObjectRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Weekly Review", req.Name)
			json.NewEncoder(w).Encode(objectEnvelope{
				Object: Object{ID: "ob_new", Name: req.Name, TypeKey: req.TypeKey},
			})

		case r.Method == "PATCH" && r.URL.Path == "/v1/spaces/sp_1/objects/ob_new":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			json.NewEncoder(w).Encode(objectEnvelope{
				Object: Object{ID: "ob_new", Name: body["name"]},
			})

		case r.Method == "DELETE" && r.URL.Path == "/v1/spaces/sp_1/objects/ob_new":
			w.WriteHeader(http.StatusNoContent)

		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	ctx := context.Background()

	created, err := client.CreateObject(ctx, "sp_1", CreateObjectRequest{
		Name:    "Weekly Review",
		TypeKey: "note",
	})
	require.NoError(t, err)
	assert.Equal(t, "ob_new", created.ID)

	renamed, err := client.RenameObject(ctx, "sp_1", "ob_new", "Weekly Review 2")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Review 2", renamed.Name)

	require.NoError(t, client.DeleteObject(ctx, "sp_1", "ob_new"))
}

func TestClient_ErrorsPassThrough(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.ListSpaces(context.Background())
	require.Error(t, err)
	assert.True(t, apiclient.IsAuthError(err))
}

func TestProperties_Accessors(t *testing.T) {
	raw := `{"title":"Q3 Plan","priority":2,"done":false,"assignees":["ana","li"]}`
	var props Properties
	require.NoError(t, json.Unmarshal([]byte(raw), &props))

	title, ok := props.String("title")
	assert.True(t, ok)
	assert.Equal(t, "Q3 Plan", title)

	priority, ok := props.Number("priority")
	assert.True(t, ok)
	assert.Equal(t, float64(2), priority)

	done, ok := props.Bool("done")
	assert.True(t, ok)
	assert.False(t, done)

	assignees, ok := props.Strings("assignees")
	assert.True(t, ok)
	assert.Equal(t, []string{"ana", "li"}, assignees)

	_, ok = props.String("missing")
	assert.False(t, ok)
}

func TestProperties_Decode(t *testing.T) {
	props := Properties{
		"title":    "Q3 Plan",
		"priority": float64(2),
	}

	var out struct {
		Title    string
		Priority int
	}
	require.NoError(t, props.Decode(&out))
	assert.Equal(t, "Q3 Plan", out.Title)
	assert.Equal(t, 2, out.Priority)
}

func TestKeyForName(t *testing.T) {
	for name, want := range map[string]string{
		"Meeting Notes": "meeting_notes",
		"task":          "task",
		"OKR Review":    "okr_review",
	} {
		assert.Equal(t, want, KeyForName(name), fmt.Sprintf("KeyForName(%q)", name))
	}
}
