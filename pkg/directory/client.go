// Package directory is a thin, typed client for the app's entity collections:
// spaces, types, objects, lists, properties, tags, members, and templates.
// It owns no caching or matching logic; it fetches, decodes, and returns.
package directory

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/lodestone/pkg/apiclient"
)

// pageSize is the page size requested from list endpoints.
const pageSize = 100

// Client lists and mutates entity collections over the API client.
type Client struct {
	api    *apiclient.Client
	logger hclog.Logger
}

// NewClient creates a directory client on top of an API client.
func NewClient(api *apiclient.Client, logger hclog.Logger) *Client {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		api:    api,
		logger: logger.Named("directory"),
	}
}

// page is the app's list response envelope.
type page[T any] struct {
	Data       []T `json:"data"`
	Pagination struct {
		Total   int  `json:"total"`
		Offset  int  `json:"offset"`
		Limit   int  `json:"limit"`
		HasMore bool `json:"has_more"`
	} `json:"pagination"`
}

// listAll walks a paginated list endpoint to completion.
func listAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var all []T
	offset := 0

	for {
		var p page[T]
		paged := fmt.Sprintf("%s?offset=%d&limit=%d", path, offset, pageSize)
		if err := c.api.Get(ctx, paged, &p); err != nil {
			return nil, err
		}

		all = append(all, p.Data...)
		if !p.Pagination.HasMore || len(p.Data) == 0 {
			return all, nil
		}
		offset += len(p.Data)
	}
}

// ListSpaces returns all spaces visible to the credential.
func (c *Client) ListSpaces(ctx context.Context) ([]Space, error) {
	return listAll[Space](ctx, c, "/v1/spaces")
}

// ListTypes returns all types of a space.
func (c *Client) ListTypes(ctx context.Context, spaceID string) ([]Type, error) {
	return listAll[Type](ctx, c, fmt.Sprintf("/v1/spaces/%s/types", url.PathEscape(spaceID)))
}

// ListObjects returns all objects of a space.
func (c *Client) ListObjects(ctx context.Context, spaceID string) ([]Object, error) {
	return listAll[Object](ctx, c, fmt.Sprintf("/v1/spaces/%s/objects", url.PathEscape(spaceID)))
}

// ListLists returns all collection objects of a space.
func (c *Client) ListLists(ctx context.Context, spaceID string) ([]List, error) {
	return listAll[List](ctx, c, fmt.Sprintf("/v1/spaces/%s/lists", url.PathEscape(spaceID)))
}

// ListProperties returns all properties of a type.
func (c *Client) ListProperties(ctx context.Context, typeID string) ([]Property, error) {
	return listAll[Property](ctx, c, fmt.Sprintf("/v1/types/%s/properties", url.PathEscape(typeID)))
}

// ListTags returns all tags of a property.
func (c *Client) ListTags(ctx context.Context, propertyID string) ([]Tag, error) {
	return listAll[Tag](ctx, c, fmt.Sprintf("/v1/properties/%s/tags", url.PathEscape(propertyID)))
}

// ListMembers returns all members of a space.
func (c *Client) ListMembers(ctx context.Context, spaceID string) ([]Member, error) {
	return listAll[Member](ctx, c, fmt.Sprintf("/v1/spaces/%s/members", url.PathEscape(spaceID)))
}

// ListTemplates returns all templates of a type within a space.
func (c *Client) ListTemplates(ctx context.Context, spaceID, typeID string) ([]Template, error) {
	return listAll[Template](ctx, c, fmt.Sprintf("/v1/spaces/%s/types/%s/templates",
		url.PathEscape(spaceID), url.PathEscape(typeID)))
}

// CreateObjectRequest is the payload for CreateObject.
type CreateObjectRequest struct {
	Name       string     `json:"name"`
	TypeKey    string     `json:"type_key"`
	Properties Properties `json:"properties,omitempty"`
}

// objectEnvelope is the app's single-record response envelope.
type objectEnvelope struct {
	Object Object `json:"object"`
}

// CreateObject creates a new object in a space.
func (c *Client) CreateObject(ctx context.Context, spaceID string, req CreateObjectRequest) (*Object, error) {
	var resp objectEnvelope
	path := fmt.Sprintf("/v1/spaces/%s/objects", url.PathEscape(spaceID))
	if err := c.api.Post(ctx, path, req, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("created object", "space_id", spaceID, "object_id", resp.Object.ID)
	return &resp.Object, nil
}

// RenameObject updates an object's display name. Callers that cached the old
// name are responsible for invalidating it.
func (c *Client) RenameObject(ctx context.Context, spaceID, objectID, name string) (*Object, error) {
	var resp objectEnvelope
	path := fmt.Sprintf("/v1/spaces/%s/objects/%s", url.PathEscape(spaceID), url.PathEscape(objectID))
	body := map[string]string{"name": name}
	if err := c.api.Patch(ctx, path, body, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("renamed object", "space_id", spaceID, "object_id", objectID)
	return &resp.Object, nil
}

// DeleteObject archives an object.
func (c *Client) DeleteObject(ctx context.Context, spaceID, objectID string) error {
	path := fmt.Sprintf("/v1/spaces/%s/objects/%s", url.PathEscape(spaceID), url.PathEscape(objectID))
	if err := c.api.Delete(ctx, path, nil); err != nil {
		return err
	}

	c.logger.Debug("deleted object", "space_id", spaceID, "object_id", objectID)
	return nil
}
