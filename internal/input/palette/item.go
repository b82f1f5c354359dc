package palette

import (
	"fmt"
	"strings"
)

// Common item types shown on the desktop.
const (
	TypeApp      = "app"
	TypeWindow   = "window"
	TypeWidget   = "widget"
	TypeDocument = "document"
	TypeCommand  = "command"
)

// Item is anything the palette can find: an app, window, widget,
// document or command.
type Item struct {
	// ID uniquely identifies the item. Uniqueness is assumed, not enforced
	// by Search.
	ID string

	// Name is the display name and the primary search target.
	Name string

	// Type groups related items (e.g., "app", "widget").
	Type string

	// Keywords are secondary search targets, tried in order when the name
	// does not match.
	Keywords []string

	// Source indicates where the item was registered.
	// e.g., "core", "catalog", "plugin:links"
	Source string

	// Data is arbitrary data associated with this item.
	Data any
}

// Validate checks that the item can be registered.
func (it *Item) Validate() error {
	if strings.TrimSpace(it.ID) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidItem)
	}
	if strings.TrimSpace(it.Name) == "" {
		return fmt.Errorf("%w: item %q has an empty name", ErrInvalidItem, it.ID)
	}
	return nil
}

// clone returns a copy that shares no slices with the original.
func (it *Item) clone() *Item {
	c := *it
	if it.Keywords != nil {
		c.Keywords = append([]string(nil), it.Keywords...)
	}
	return &c
}
