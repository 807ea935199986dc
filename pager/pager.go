// Package pager maps page indices to fixed-size byte buffers backed by a
// single file. It is the sole owner of the file handle and the in-memory
// page cache; every other package borrows a page for the duration of one
// operation and never touches the file directly.
package pager

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	// PageSize is the fixed size, in bytes, of every page in the file.
	PageSize = 4096

	// TableMaxPages bounds the number of pages the cache will hold
	// resident at once. The observed workloads never approach it, but a
	// correct pager must refuse to grow past it rather than silently
	// evict pages it has no eviction policy for.
	TableMaxPages = 100
)

// Page is one fixed-size, in-memory buffer. It is addressed by PageNum and
// is mutated only through the table package's node-layout accessors.
type Page struct {
	Data [PageSize]byte
}

// Pager owns the database file and the resident page cache. Reads and
// writes are deferred: GetPage materializes a page in memory, and only
// Close (or an explicit FlushPage) writes it back.
type Pager struct {
	file     *os.File
	log      *logrus.Entry
	pages    [TableMaxPages]*Page
	numPages uint32
}

// Open opens or creates the file at path and computes the number of pages
// already on disk. It fails if the file size is not a whole multiple of
// PageSize, since that would mean the file was left mid-write by an
// unclean shutdown this engine does not attempt to recover from.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "pager: open %s", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "pager: stat %s", path)
	}

	size := info.Size()
	if size%PageSize != 0 {
		f.Close()
		return nil, errors.Errorf("pager: %s size %d is not a whole number of pages", path, size)
	}

	p := &Pager{
		file:     f,
		log:      logrus.WithField("component", "pager").WithField("path", path),
		numPages: uint32(size / PageSize),
	}
	p.log.WithField("num_pages", p.numPages).Debug("pager opened")
	return p, nil
}

// NumPages reports how many pages the pager currently knows about,
// including pages allocated but not yet flushed.
func (p *Pager) NumPages() uint32 {
	return p.numPages
}

// GetPage returns the in-memory buffer for pageNum, reading it from disk
// on first access. A page beyond the current end of file is handed back
// zero-initialized and grows the page count to accommodate it.
func (p *Pager) GetPage(pageNum uint32) (*Page, error) {
	if pageNum >= TableMaxPages {
		return nil, errors.Errorf("pager: page %d exceeds max pages %d", pageNum, TableMaxPages)
	}

	if p.pages[pageNum] == nil {
		page := &Page{}
		if pageNum < p.numPages {
			off := int64(pageNum) * PageSize
			if _, err := p.file.ReadAt(page.Data[:], off); err != nil && err != io.EOF {
				return nil, errors.Wrapf(err, "pager: read page %d", pageNum)
			}
		}
		p.pages[pageNum] = page
		if pageNum >= p.numPages {
			p.numPages = pageNum + 1
		}
	}

	return p.pages[pageNum], nil
}

// FlushPage writes the resident page at pageNum back to its offset in the
// file. It is a no-op if the page was never materialized.
func (p *Pager) FlushPage(pageNum uint32) error {
	page := p.pages[pageNum]
	if page == nil {
		return nil
	}
	off := int64(pageNum) * PageSize
	if _, err := p.file.WriteAt(page.Data[:], off); err != nil {
		return errors.Wrapf(err, "pager: flush page %d", pageNum)
	}
	return nil
}

// Close flushes every resident page, then closes the file. The cache is
// dropped; the Pager must not be used again afterward.
func (p *Pager) Close() error {
	for i := uint32(0); i < p.numPages; i++ {
		if err := p.FlushPage(i); err != nil {
			return err
		}
	}
	p.log.WithField("num_pages", p.numPages).Debug("pager flushed and closed")
	for i := range p.pages {
		p.pages[i] = nil
	}
	if err := p.file.Close(); err != nil {
		return errors.Wrap(err, "pager: close file")
	}
	return nil
}
