package app

import (
	"context"
)

// ReadCommand fetches a single object and keeps its text body.
type ReadCommand struct {
	prov Provider
	key  string

	content string
}

// NewReadCommand builds the read command for one key.
func NewReadCommand(prov Provider, key string) *ReadCommand {
	return &ReadCommand{prov: prov, key: key}
}

// Run fetches the object body.
func (c *ReadCommand) Run(ctx context.Context) error {
	content, err := c.prov.Read(ctx, c.key)
	if err != nil {
		return err
	}
	c.content = content
	return nil
}

// Content returns the body fetched by Run.
func (c *ReadCommand) Content() string {
	return c.content
}
