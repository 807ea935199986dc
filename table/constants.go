package table

import "vqlite/pager"

// Row field widths, per the fixed three-column schema this engine serves:
// id (uint32), username (bounded text), email (bounded text).
const (
	IDSize       = 4
	UsernameSize = 32
	EmailSize    = 255

	IDOffset       = 0
	UsernameOffset = IDOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize + 1

	// RowSize is the serialized width of one row: 4 + 33 + 256, where the
	// username and email fields each reserve one extra terminator byte
	// beyond their maximum content length.
	RowSize = IDSize + (UsernameSize + 1) + (EmailSize + 1)
)

// Common node header: node_type (1) + is_root (1) + parent_ptr (4).
const (
	NodeTypeSize   = 1
	NodeTypeOffset = 0

	IsRootSize   = 1
	IsRootOffset = NodeTypeOffset + NodeTypeSize

	ParentPointerSize   = 4
	ParentPointerOffset = IsRootOffset + IsRootSize

	CommonNodeHeaderSize = NodeTypeSize + IsRootSize + ParentPointerSize
)

// Leaf node header and body layout.
const (
	LeafNodeNumCellsSize   = 4
	LeafNodeNumCellsOffset = CommonNodeHeaderSize
	LeafNodeHeaderSize     = CommonNodeHeaderSize + LeafNodeNumCellsSize

	LeafNodeKeySize      = 4
	LeafNodeKeyOffset    = 0
	LeafNodeValueSize    = RowSize
	LeafNodeValueOffset  = LeafNodeKeyOffset + LeafNodeKeySize
	LeafNodeCellSize     = LeafNodeKeySize + LeafNodeValueSize

	LeafNodeSpaceForCells = pager.PageSize - LeafNodeHeaderSize
	LeafNodeMaxCells      = LeafNodeSpaceForCells / LeafNodeCellSize

	// LeafNodeRightSplitCount and LeafNodeLeftSplitCount partition a
	// one-too-full leaf (LeafNodeMaxCells+1 cells) between the existing
	// leaf and its new right sibling: the right half gets half the total
	// rounded down and the left half the rest, so for the 14-cell total
	// each half holds 7 cells.
	LeafNodeRightSplitCount = (LeafNodeMaxCells + 1) / 2
	LeafNodeLeftSplitCount  = (LeafNodeMaxCells + 1) - LeafNodeRightSplitCount
)

// Internal node header and body layout. Only exercised once a leaf split
// promotes a separator key to a parent; spec.md describes this format but
// the public .constants/.btree tests never reach it directly.
const (
	InternalNodeNumKeysSize      = 4
	InternalNodeNumKeysOffset    = CommonNodeHeaderSize
	InternalNodeRightChildSize   = 4
	InternalNodeRightChildOffset = InternalNodeNumKeysOffset + InternalNodeNumKeysSize
	InternalNodeHeaderSize       = InternalNodeRightChildOffset + InternalNodeRightChildSize

	InternalNodeKeySize   = 4
	InternalNodeChildSize = 4
	InternalNodeCellSize  = InternalNodeChildSize + InternalNodeKeySize

	InternalNodeSpaceForCells = pager.PageSize - InternalNodeHeaderSize
	InternalNodeMaxCells      = InternalNodeSpaceForCells / InternalNodeCellSize
)

// Node type tags stored in the first byte of every page.
const (
	NodeTypeInternal byte = 0
	NodeTypeLeaf     byte = 1
)
