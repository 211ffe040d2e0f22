package backend

import (
	"context"       // Request scoping
	"encoding/json" // Raw responses
	"fmt"           // Error wrapping
	"net/http"      // HTTP methods
	"net/url"       // Path escaping

	"royal_site/internal/domain" // Menu items
)

// MenuService is the menu resource of the backend
type MenuService interface {
	ListMenu(ctx context.Context) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id string) (domain.MenuItem, error)
	AddMenuItem(ctx context.Context, item domain.MenuItem) error
	UpdateMenuItem(ctx context.Context, id string, item domain.MenuItem) error
	DeleteMenuItem(ctx context.Context, id string) error
}

var _ MenuService = (*Client)(nil)

// ListMenu fetches the full menu collection (GET /menu)
func (c *Client) ListMenu(ctx context.Context) ([]domain.MenuItem, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "menu.list", http.MethodGet, "/menu", nil, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[domain.MenuItem](raw, "menus")
	if err != nil {
		return nil, fmt.Errorf("menu.list: decode menus: %w", err)
	}
	return items, nil
}

// GetMenuItem finds one item. The backend has no single-item endpoint, so the
// collection is fetched and searched.
func (c *Client) GetMenuItem(ctx context.Context, id string) (domain.MenuItem, error) {
	return findMenuItem(ctx, c, id)
}

// AddMenuItem creates an item (POST /menu/add)
func (c *Client) AddMenuItem(ctx context.Context, item domain.MenuItem) error {
	return c.do(ctx, "menu.add", http.MethodPost, "/menu/add", item.Payload(), nil)
}

// UpdateMenuItem sends a partial update (PATCH /menu/:id)
func (c *Client) UpdateMenuItem(ctx context.Context, id string, item domain.MenuItem) error {
	return c.do(ctx, "menu.update", http.MethodPatch, "/menu/"+url.PathEscape(id), item.Payload(), nil)
}

// DeleteMenuItem removes an item (DELETE /menu/:id)
func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, "menu.delete", http.MethodDelete, "/menu/"+url.PathEscape(id), nil, nil)
}

func findMenuItem(ctx context.Context, svc MenuService, id string) (domain.MenuItem, error) {
	items, err := svc.ListMenu(ctx)
	if err != nil {
		return domain.MenuItem{}, err
	}
	item, ok := domain.FindMenuItem(items, id)
	if !ok {
		return domain.MenuItem{}, ErrNotFound
	}
	return item, nil
}
