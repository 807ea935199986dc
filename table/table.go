package table

import (
	"context"

	"vqlite/pager"
)

// Table is the public, schema-bound handle the REPL drives: a single
// file-backed B+-tree of rows keyed by id. context.Context is threaded
// through every blocking-shaped call for consistency with the rest of the
// ecosystem this engine borrows its idioms from; nothing here currently
// blocks long enough to honor cancellation mid-call.
type Table struct {
	pager *pager.Pager
	tree  *BTree
}

// Open opens (creating if necessary) the single-file database at path and
// returns a Table ready to serve Insert/Find/Scan.
func Open(ctx context.Context, path string) (*Table, error) {
	p, err := pager.Open(path)
	if err != nil {
		return nil, err
	}
	tree, err := NewBTree(p)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return &Table{pager: p, tree: tree}, nil
}

// Close flushes every resident page to disk and releases the file handle.
func (t *Table) Close(ctx context.Context) error {
	return t.pager.Close()
}

// Find returns a cursor at the row whose id is key, or at the position
// where a row with that id would be inserted.
func (t *Table) Find(ctx context.Context, key uint32) (*Cursor, error) {
	return t.tree.Find(key)
}

// Insert adds row to the table. It returns ErrDuplicateKey, unwrapped via
// errors.Is, if row.ID already exists.
func (t *Table) Insert(ctx context.Context, row Row) error {
	return t.tree.Insert(row)
}

// Scan returns a cursor positioned at the first row in id order.
func (t *Table) Scan(ctx context.Context) (*Cursor, error) {
	return t.tree.Start()
}

// NumPages reports how many 4 KiB pages the pager currently knows about,
// including pages not yet flushed to the backing file.
func (t *Table) NumPages() uint32 {
	return t.pager.NumPages()
}

// Pager exposes the underlying pager for diagnostics, such as inspecting
// raw node pages.
func (t *Table) Pager() *pager.Pager {
	return t.pager
}
