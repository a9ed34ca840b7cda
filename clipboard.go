package main

import (
	"go.uber.org/zap"
	"golang.design/x/clipboard"
)

// Clipboard wraps the system clipboard. Without a usable clipboard every
// call is a no-op.
type Clipboard struct {
	ok     bool
	logger *zap.Logger
}

func NewClipboard(logger *zap.Logger) *Clipboard {
	c := &Clipboard{logger: logger}
	if err := clipboard.Init(); err != nil {
		logger.Warn("clipboard unavailable", zap.Error(err))
		return c
	}
	c.ok = true
	return c
}

func (c *Clipboard) CopyText(data []byte) {
	if !c.ok {
		return
	}
	clipboard.Write(clipboard.FmtText, data)
}

func (c *Clipboard) Text() []byte {
	if !c.ok {
		return nil
	}
	return clipboard.Read(clipboard.FmtText)
}

// Image returns PNG bytes when the clipboard holds an image.
func (c *Clipboard) Image() []byte {
	if !c.ok {
		return nil
	}
	return clipboard.Read(clipboard.FmtImage)
}
