// Package parser implements the per-source strategies that turn a downloaded
// file into a normalized table. Variants cover HTML tables, HTML news lists,
// RSS feeds, XLS workbooks, and tolerant delimited text.
//
// A parser returns (nil, nil) when the file is a recognized "no data" page;
// structural failures are reported as *ParseError.
package parser

import (
	"fmt"

	"github.com/gpwtool/gpwmon/internal/table"
)

// Parser turns a local file into a table.
type Parser interface {
	// Parse reads the file at path. A nil table with nil error means the
	// source reported no data for the requested criteria.
	Parse(path string) (*table.Table, error)
}

// ParseError reports an unrecoverable structural failure in a source file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErrorf(path, format string, args ...any) *ParseError {
	return &ParseError{Path: path, Err: fmt.Errorf(format, args...)}
}
