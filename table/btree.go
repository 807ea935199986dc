// Package table implements the B+-tree that indexes rows by id, the
// record codec for the fixed three-column schema, and the cursor/table
// API the REPL drives. The tree is rooted at page 0 at all times; a split
// that reaches the root copies the root's contents into a freshly
// allocated child page and rewrites page 0 as the new internal root.
package table

import (
	"encoding/binary"
	"sort"

	"github.com/pkg/errors"

	"vqlite/pager"
)

const rootPageNum = 0

// BTree is the primary-key index over Row.ID, backed by a Pager.
type BTree struct {
	pager *pager.Pager
}

// NewBTree returns a BTree view over p, initializing page 0 as an empty
// leaf root the first time the backing file is used.
func NewBTree(p *pager.Pager) (*BTree, error) {
	t := &BTree{pager: p}
	if p.NumPages() == 0 {
		root, err := p.GetPage(rootPageNum)
		if err != nil {
			return nil, err
		}
		InitializeLeaf(root, true)
	}
	return t, nil
}

// Cursor is a lightweight, short-lived position (page_num, cell_index)
// into the tree. It never holds a pointer into a page buffer, so an
// intervening GetPage that grows the cache cannot leave it dangling.
type Cursor struct {
	tree       *BTree
	page       uint32
	cell       uint32
	endOfTable bool
}

// EndOfTable reports whether the cursor has advanced past the last row.
func (c *Cursor) EndOfTable() bool {
	return c.endOfTable
}

// Value decodes the row the cursor currently points at. Call only when
// EndOfTable is false.
func (c *Cursor) Value() (Row, error) {
	page, err := c.tree.pager.GetPage(c.page)
	if err != nil {
		return Row{}, err
	}
	return DecodeRow(LeafValue(page, c.cell)), nil
}

// Advance moves the cursor to the next cell in the current leaf. Once no
// leaf-to-leaf pointer is threaded into the 10-byte leaf header (see
// DESIGN.md for why), advancing off the end of a leaf always sets
// EndOfTable, even if later leaves hold further keys.
func (c *Cursor) Advance() error {
	page, err := c.tree.pager.GetPage(c.page)
	if err != nil {
		return err
	}
	c.cell++
	if c.cell >= LeafNumCells(page) {
		c.endOfTable = true
	}
	return nil
}

// Start returns a cursor positioned at the first cell of the left-most
// leaf in the tree.
func (t *BTree) Start() (*Cursor, error) {
	pageNum := uint32(rootPageNum)
	page, err := t.pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	for NodeType(page) == NodeTypeInternal {
		if InternalNumKeys(page) > 0 {
			pageNum = InternalChild(page, 0)
		} else {
			pageNum = InternalRightChild(page)
		}
		page, err = t.pager.GetPage(pageNum)
		if err != nil {
			return nil, err
		}
	}
	return &Cursor{tree: t, page: pageNum, cell: 0, endOfTable: LeafNumCells(page) == 0}, nil
}

// Find descends from the root to the leaf that contains key, or that
// would hold key if it were inserted. The returned cursor's cell index
// either names the matching cell or the sorted insertion position.
func (t *BTree) Find(key uint32) (*Cursor, error) {
	pageNum := uint32(rootPageNum)
	page, err := t.pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	for NodeType(page) == NodeTypeInternal {
		idx := internalSearch(page, key)
		if idx < InternalNumKeys(page) {
			pageNum = InternalChild(page, idx)
		} else {
			pageNum = InternalRightChild(page)
		}
		page, err = t.pager.GetPage(pageNum)
		if err != nil {
			return nil, err
		}
	}
	return &Cursor{tree: t, page: pageNum, cell: leafSearch(page, key)}, nil
}

// Insert adds row into the tree, keyed by row.ID. It reports
// ErrDuplicateKey without mutating the tree if the key is already present.
func (t *BTree) Insert(row Row) error {
	key := row.ID
	cur, err := t.Find(key)
	if err != nil {
		return err
	}
	page, err := t.pager.GetPage(cur.page)
	if err != nil {
		return err
	}
	if cur.cell < LeafNumCells(page) && LeafKey(page, cur.cell) == key {
		return ErrDuplicateKey
	}
	return t.leafInsert(cur.page, cur.cell, key, row)
}

func leafSearch(page *pager.Page, key uint32) uint32 {
	n := int(LeafNumCells(page))
	idx := sort.Search(n, func(i int) bool {
		return LeafKey(page, uint32(i)) >= key
	})
	return uint32(idx)
}

func internalSearch(page *pager.Page, key uint32) uint32 {
	n := int(InternalNumKeys(page))
	idx := sort.Search(n, func(i int) bool {
		return InternalKey(page, uint32(i)) >= key
	})
	return uint32(idx)
}

// leafInsert places (key, row) into the leaf at pageNum at sorted index
// cellIdx, shifting later cells right, or splits the leaf if it is full.
func (t *BTree) leafInsert(pageNum, cellIdx, key uint32, row Row) error {
	page, err := t.pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	numCells := LeafNumCells(page)

	if numCells < LeafNodeMaxCells {
		for i := numCells; i > cellIdx; i-- {
			copy(LeafCell(page, i), LeafCell(page, i-1))
		}
		SetLeafKey(page, cellIdx, key)
		encoded := EncodeRow(row)
		copy(LeafValue(page, cellIdx), encoded[:])
		SetLeafNumCells(page, numCells+1)
		return nil
	}

	return t.splitLeafAndInsert(pageNum, cellIdx, key, row)
}

// splitLeafAndInsert splits a full leaf into itself (or a freshly
// allocated left child, if it was the root) and a new right sibling, per
// spec.md's split point of ceil((LEAF_NODE_MAX_CELLS+1)/2) cells to the
// right. The separator promoted to the parent is the maximum key left in
// the left half.
func (t *BTree) splitLeafAndInsert(oldPageNum, cellIdx, key uint32, row Row) error {
	oldPage, err := t.pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}

	total := uint32(LeafNodeMaxCells + 1)
	cells := make([][LeafNodeCellSize]byte, total)
	for i := uint32(0); i < total; i++ {
		switch {
		case i < cellIdx:
			copy(cells[i][:], LeafCell(oldPage, i))
		case i == cellIdx:
			binary.LittleEndian.PutUint32(cells[i][LeafNodeKeyOffset:LeafNodeKeyOffset+LeafNodeKeySize], key)
			encoded := EncodeRow(row)
			copy(cells[i][LeafNodeValueOffset:], encoded[:])
		default:
			copy(cells[i][:], LeafCell(oldPage, i-1))
		}
	}

	wasRoot := IsRoot(oldPage)
	oldParent := ParentPointer(oldPage)

	rightPageNum, err := t.allocatePage()
	if err != nil {
		return err
	}

	leftPageNum := oldPageNum
	if wasRoot {
		leftPageNum, err = t.allocatePage()
		if err != nil {
			return err
		}
	}

	leftPage, err := t.pager.GetPage(leftPageNum)
	if err != nil {
		return err
	}
	rightPage, err := t.pager.GetPage(rightPageNum)
	if err != nil {
		return err
	}

	InitializeLeaf(leftPage, false)
	InitializeLeaf(rightPage, false)

	for i := uint32(0); i < LeafNodeLeftSplitCount; i++ {
		copy(LeafCell(leftPage, i), cells[i][:])
	}
	SetLeafNumCells(leftPage, LeafNodeLeftSplitCount)

	for i := uint32(0); i < LeafNodeRightSplitCount; i++ {
		copy(LeafCell(rightPage, i), cells[LeafNodeLeftSplitCount+i][:])
	}
	SetLeafNumCells(rightPage, LeafNodeRightSplitCount)

	splitKey := LeafKey(leftPage, LeafNodeLeftSplitCount-1)

	if wasRoot {
		return t.createNewRoot(oldPageNum, leftPageNum, rightPageNum, splitKey)
	}

	SetParentPointer(leftPage, oldParent)
	SetParentPointer(rightPage, oldParent)
	return t.internalInsert(oldParent, leftPageNum, rightPageNum, splitKey)
}

// createNewRoot rewrites rootPageNum (always page 0) as a fresh internal
// node with one separator key and two children: the old root's contents,
// relocated to leftPageNum, and the new right sibling at rightPageNum.
func (t *BTree) createNewRoot(rootPg, leftPageNum, rightPageNum, splitKey uint32) error {
	leftPage, err := t.pager.GetPage(leftPageNum)
	if err != nil {
		return err
	}
	rightPage, err := t.pager.GetPage(rightPageNum)
	if err != nil {
		return err
	}
	root, err := t.pager.GetPage(rootPg)
	if err != nil {
		return err
	}

	InitializeInternal(root, true)
	SetInternalNumKeys(root, 1)
	SetInternalChild(root, 0, leftPageNum)
	SetInternalKey(root, 0, splitKey)
	SetInternalRightChild(root, rightPageNum)

	SetIsRoot(leftPage, false)
	SetIsRoot(rightPage, false)
	SetParentPointer(leftPage, rootPg)
	SetParentPointer(rightPage, rootPg)

	return nil
}

// internalInsert splices a new (oldChildPageNum, splitKey) separator cell
// into the internal node at parentPageNum and repoints whichever
// reference used to resolve to oldChildPageNum (a cell's child pointer,
// or the trailing right-child pointer) at newChildPageNum, since
// newChildPageNum now holds the larger half of what oldChildPageNum used
// to cover. Overflows propagate via splitInternalAndInsert.
func (t *BTree) internalInsert(parentPageNum, oldChildPageNum, newChildPageNum, splitKey uint32) error {
	page, err := t.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	numKeys := InternalNumKeys(page)

	if numKeys >= InternalNodeMaxCells {
		return t.splitInternalAndInsert(parentPageNum, oldChildPageNum, newChildPageNum, splitKey)
	}

	idx := internalSearch(page, splitKey)

	if idx == numKeys {
		oldRight := InternalRightChild(page)
		SetInternalChild(page, idx, oldRight)
		SetInternalKey(page, idx, splitKey)
		SetInternalRightChild(page, newChildPageNum)
	} else {
		for i := numKeys; i > idx; i-- {
			SetInternalChild(page, i, InternalChild(page, i-1))
			SetInternalKey(page, i, InternalKey(page, i-1))
		}
		SetInternalChild(page, idx, oldChildPageNum)
		SetInternalKey(page, idx, splitKey)
		SetInternalChild(page, idx+1, newChildPageNum)
	}
	SetInternalNumKeys(page, numKeys+1)

	if child, err := t.pager.GetPage(oldChildPageNum); err == nil {
		SetParentPointer(child, parentPageNum)
	}
	if child, err := t.pager.GetPage(newChildPageNum); err == nil {
		SetParentPointer(child, parentPageNum)
	}
	return nil
}

type internalCellValue struct {
	child uint32
	key   uint32
}

// splitInternalAndInsert splits a full internal node the same way
// splitLeafAndInsert splits a full leaf: gather the (max_cells+1) cells
// that would result from the insert, including the virtual trailing
// right-child slot, then divide them into a left and right half around a
// median cell whose key is pushed up to the grandparent.
func (t *BTree) splitInternalAndInsert(pageNum, oldChildPageNum, newChildPageNum, insertKey uint32) error {
	page, err := t.pager.GetPage(pageNum)
	if err != nil {
		return err
	}

	numKeys := InternalNumKeys(page)
	total := int(numKeys) + 1
	idx := int(internalSearch(page, insertKey))

	cells := make([]internalCellValue, total)
	src := uint32(0)
	for i := 0; i < total; i++ {
		if i == idx {
			cells[i] = internalCellValue{child: oldChildPageNum, key: insertKey}
			continue
		}
		cells[i] = internalCellValue{child: InternalChild(page, src), key: InternalKey(page, src)}
		src++
	}
	oldRightChild := InternalRightChild(page)
	if idx+1 < total {
		cells[idx+1].child = newChildPageNum
	} else {
		oldRightChild = newChildPageNum
	}

	mid := total / 2
	medianKey := cells[mid].key
	medianChild := cells[mid].child

	wasRoot := IsRoot(page)
	parentOfThis := ParentPointer(page)

	rightPageNum, err := t.allocatePage()
	if err != nil {
		return err
	}
	leftPageNum := pageNum
	if wasRoot {
		leftPageNum, err = t.allocatePage()
		if err != nil {
			return err
		}
	}

	leftPage, err := t.pager.GetPage(leftPageNum)
	if err != nil {
		return err
	}
	rightPage, err := t.pager.GetPage(rightPageNum)
	if err != nil {
		return err
	}

	InitializeInternal(leftPage, false)
	InitializeInternal(rightPage, false)

	for i := 0; i < mid; i++ {
		SetInternalChild(leftPage, uint32(i), cells[i].child)
		SetInternalKey(leftPage, uint32(i), cells[i].key)
	}
	SetInternalNumKeys(leftPage, uint32(mid))
	SetInternalRightChild(leftPage, medianChild)

	for i := mid + 1; i < total; i++ {
		SetInternalChild(rightPage, uint32(i-mid-1), cells[i].child)
		SetInternalKey(rightPage, uint32(i-mid-1), cells[i].key)
	}
	SetInternalNumKeys(rightPage, uint32(total-mid-1))
	SetInternalRightChild(rightPage, oldRightChild)

	t.reparentChildren(leftPage, leftPageNum)
	t.reparentChildren(rightPage, rightPageNum)

	if wasRoot {
		return t.createNewRoot(pageNum, leftPageNum, rightPageNum, medianKey)
	}

	SetParentPointer(leftPage, parentOfThis)
	SetParentPointer(rightPage, parentOfThis)
	return t.internalInsert(parentOfThis, leftPageNum, rightPageNum, medianKey)
}

// reparentChildren updates every child referenced by the internal node at
// page (now living at pageNum) to point back at it.
func (t *BTree) reparentChildren(page *pager.Page, pageNum uint32) {
	for i := uint32(0); i < InternalNumKeys(page); i++ {
		if child, err := t.pager.GetPage(InternalChild(page, i)); err == nil {
			SetParentPointer(child, pageNum)
		}
	}
	if child, err := t.pager.GetPage(InternalRightChild(page)); err == nil {
		SetParentPointer(child, pageNum)
	}
}

// allocatePage hands out the next unused page number, refusing once the
// pager's resident-page bound is reached.
func (t *BTree) allocatePage() (uint32, error) {
	n := t.pager.NumPages()
	if n >= pager.TableMaxPages {
		return 0, errors.Errorf("btree: no more pages available (max %d)", pager.TableMaxPages)
	}
	if _, err := t.pager.GetPage(n); err != nil {
		return 0, err
	}
	return n, nil
}
