package client

import (
	"context"
	"net/url"
)

// CatalogClient reads the menu and exercises the NLU.
type CatalogClient struct {
	client *Client
}

func langQuery(lang string) string {
	if lang == "" {
		return ""
	}
	return "?lang=" + url.QueryEscape(lang)
}

// Menu returns the menu in lang ("en" or "ar"; empty means English).
func (c *CatalogClient) Menu(ctx context.Context, lang string) (*Menu, error) {
	var out Menu
	if err := c.client.get(ctx, "/api/v1/menu"+langQuery(lang), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Branches lists the restaurant branches.
func (c *CatalogClient) Branches(ctx context.Context, lang string) ([]Branch, error) {
	var out struct {
		Branches []Branch `json:"branches"`
	}
	if err := c.client.get(ctx, "/api/v1/branches"+langQuery(lang), &out); err != nil {
		return nil, err
	}
	return out.Branches, nil
}

// Parse returns what the NLU extracts from text.
func (c *CatalogClient) Parse(ctx context.Context, text string) (*ParseResult, error) {
	var out ParseResult
	if err := c.client.post(ctx, "/api/v1/nlu/parse", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
