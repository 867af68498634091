/*
Copyright © 2025 UnluckyForSome
*/

// Package catalog parses the reference DAT document into the set of canonical
// entry names and derives revision information from them.
package catalog

import (
	"errors"
	"fmt"
	"html"
	"io"

	"github.com/beevik/etree"
	"github.com/go-git/go-billy/v5"

	"github.com/UnluckyForSome/artdex/internal/nameset"
)

// ErrEmptyCatalog indicates the document parsed cleanly but yielded no
// entries. No meaningful comparison is possible against an empty catalog.
var ErrEmptyCatalog = errors.New("catalog contains no entries")

// ParseError indicates the catalog document is not well-formed XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse catalog: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a DAT document and returns the set of entry names. Entity
// references in name attributes are decoded so the returned names match the
// catalog's display form exactly; they are used as exact keys downstream.
// Entry nodes without a name attribute are skipped.
func Parse(r io.Reader) (nameset.Set, error) {
	doc := etree.NewDocument()
	// DAT files in the wild occasionally carry HTML entities the XML parser
	// does not know; decode them ourselves after the parse.
	doc.ReadSettings.Permissive = true
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, &ParseError{Err: err}
	}

	root := doc.Root()
	if root == nil {
		return nil, &ParseError{Err: errors.New("document has no root element")}
	}

	names := nameset.Set{}
	for _, game := range root.SelectElements("game") {
		name := game.SelectAttrValue("name", "")
		if name == "" {
			continue
		}
		names.Add(html.UnescapeString(name))
	}
	return names, nil
}

// ParseFile opens path on fsys and parses it as a catalog document.
func ParseFile(fsys billy.Filesystem, path string) (nameset.Set, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return Parse(f)
}
