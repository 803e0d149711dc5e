package app

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// WriteCommand schedules an asynchronous upload of text content under a key.
// The content comes either from an inline string or from a local file.
type WriteCommand struct {
	prov     Provider
	key      string
	content  string
	fromFile string
}

// NewWriteCommand builds the write command. When fromFile is non-empty the
// file's contents take the place of content.
func NewWriteCommand(prov Provider, key, content, fromFile string) *WriteCommand {
	return &WriteCommand{prov: prov, key: key, content: content, fromFile: fromFile}
}

// Run resolves the content and hands the upload to the writer pool. The
// upload itself finishes after Run has returned.
func (c *WriteCommand) Run(ctx context.Context) error {
	content := c.content
	if c.fromFile != "" {
		data, err := os.ReadFile(c.fromFile)
		if err != nil {
			return fmt.Errorf("read content file %s: %w", c.fromFile, err)
		}
		content = string(data)
	}
	if !utf8.ValidString(content) {
		return fmt.Errorf("content for %s is not valid utf-8 text", c.key)
	}

	c.prov.Write(ctx, c.key, content)
	logutil.GetLogger(ctx).Info("write scheduled",
		zap.String("key", c.key),
		zap.Int("bytes", len(content)),
	)
	return nil
}
