package pager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.db")

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	require.Equal(t, uint32(0), p.NumPages())
}

func TestOpenRejectsPartialPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.db")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestGetPageGrowsBeyondEOF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grow.db")

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	page, err := p.GetPage(3)
	require.NoError(t, err)
	require.Equal(t, uint32(4), p.NumPages())
	for _, b := range page.Data {
		require.Equal(t, byte(0), b)
	}
}

func TestGetPageRejectsOutOfBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "oob.db")

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.GetPage(TableMaxPages)
	require.Error(t, err)
}

func TestFlushPageWritesToDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flush.db")

	p, err := Open(path)
	require.NoError(t, err)

	page, err := p.GetPage(0)
	require.NoError(t, err)
	page.Data[0] = 0xAB
	page.Data[PageSize-1] = 0xCD
	require.NoError(t, p.FlushPage(0))
	require.NoError(t, p.file.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, PageSize)
	require.Equal(t, byte(0xAB), data[0])
	require.Equal(t, byte(0xCD), data[PageSize-1])
}

func TestCloseFlushesAllResidentPages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "closeflush.db")

	p, err := Open(path)
	require.NoError(t, err)

	page, err := p.GetPage(0)
	require.NoError(t, err)
	page.Data[0] = 0x42
	require.NoError(t, p.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, data, PageSize)
	require.Equal(t, byte(0x42), data[0])
}

func TestReopenPreservesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reopen.db")

	p1, err := Open(path)
	require.NoError(t, err)
	page, err := p1.GetPage(0)
	require.NoError(t, err)
	page.Data[10] = 0x77
	require.NoError(t, p1.Close())

	p2, err := Open(path)
	require.NoError(t, err)
	defer p2.Close()
	require.Equal(t, uint32(1), p2.NumPages())

	page2, err := p2.GetPage(0)
	require.NoError(t, err)
	require.Equal(t, byte(0x77), page2.Data[10])
}
