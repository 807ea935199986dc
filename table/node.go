package table

import (
	"encoding/binary"

	"vqlite/pager"
)

// NodeType reports whether the page holds a leaf or an internal node.
func NodeType(p *pager.Page) byte {
	return p.Data[NodeTypeOffset]
}

// SetNodeType tags the page as a leaf or internal node.
func SetNodeType(p *pager.Page, t byte) {
	p.Data[NodeTypeOffset] = t
}

// IsRoot reports whether the page is currently the root of the tree.
func IsRoot(p *pager.Page) bool {
	return p.Data[IsRootOffset] != 0
}

// SetIsRoot marks or clears the page's root flag.
func SetIsRoot(p *pager.Page, v bool) {
	if v {
		p.Data[IsRootOffset] = 1
	} else {
		p.Data[IsRootOffset] = 0
	}
}

// ParentPointer returns the page number of this node's parent. It is
// undefined (and never read) while IsRoot is true.
func ParentPointer(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[ParentPointerOffset : ParentPointerOffset+ParentPointerSize])
}

// SetParentPointer records the page number of this node's parent.
func SetParentPointer(p *pager.Page, parent uint32) {
	binary.LittleEndian.PutUint32(p.Data[ParentPointerOffset:ParentPointerOffset+ParentPointerSize], parent)
}

// LeafNumCells returns the number of key/row cells stored in this leaf.
func LeafNumCells(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[LeafNodeNumCellsOffset : LeafNodeNumCellsOffset+LeafNodeNumCellsSize])
}

// SetLeafNumCells updates the cell count stored in this leaf's header.
func SetLeafNumCells(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[LeafNodeNumCellsOffset:LeafNodeNumCellsOffset+LeafNodeNumCellsSize], n)
}

// leafCellOffset returns the byte offset of the i-th cell in a leaf page.
func leafCellOffset(i uint32) uint32 {
	return LeafNodeHeaderSize + i*LeafNodeCellSize
}

// LeafCell returns the raw key+row bytes for cell i.
func LeafCell(p *pager.Page, i uint32) []byte {
	off := leafCellOffset(i)
	return p.Data[off : off+LeafNodeCellSize]
}

// LeafKey returns the key stored in cell i.
func LeafKey(p *pager.Page, i uint32) uint32 {
	off := leafCellOffset(i) + LeafNodeKeyOffset
	return binary.LittleEndian.Uint32(p.Data[off : off+LeafNodeKeySize])
}

// SetLeafKey overwrites the key stored in cell i.
func SetLeafKey(p *pager.Page, i uint32, key uint32) {
	off := leafCellOffset(i) + LeafNodeKeyOffset
	binary.LittleEndian.PutUint32(p.Data[off:off+LeafNodeKeySize], key)
}

// LeafValue returns the serialized row bytes stored in cell i.
func LeafValue(p *pager.Page, i uint32) []byte {
	off := leafCellOffset(i) + LeafNodeValueOffset
	return p.Data[off : off+LeafNodeValueSize]
}

// InitializeLeaf resets the page to an empty leaf node.
func InitializeLeaf(p *pager.Page, isRoot bool) {
	SetNodeType(p, NodeTypeLeaf)
	SetIsRoot(p, isRoot)
	SetLeafNumCells(p, 0)
}

// InternalNumKeys returns the number of separator keys in an internal node.
// The node holds one more child pointer than it has keys: the trailing
// right child covers keys greater than the last separator.
func InternalNumKeys(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[InternalNodeNumKeysOffset : InternalNodeNumKeysOffset+InternalNodeNumKeysSize])
}

// SetInternalNumKeys updates the separator-key count.
func SetInternalNumKeys(p *pager.Page, n uint32) {
	binary.LittleEndian.PutUint32(p.Data[InternalNodeNumKeysOffset:InternalNodeNumKeysOffset+InternalNodeNumKeysSize], n)
}

// InternalRightChild returns the page number of the rightmost child, which
// holds every key greater than the last separator key.
func InternalRightChild(p *pager.Page) uint32 {
	return binary.LittleEndian.Uint32(p.Data[InternalNodeRightChildOffset : InternalNodeRightChildOffset+InternalNodeRightChildSize])
}

// SetInternalRightChild updates the rightmost child pointer.
func SetInternalRightChild(p *pager.Page, child uint32) {
	binary.LittleEndian.PutUint32(p.Data[InternalNodeRightChildOffset:InternalNodeRightChildOffset+InternalNodeRightChildSize], child)
}

func internalCellOffset(i uint32) uint32 {
	return InternalNodeHeaderSize + i*InternalNodeCellSize
}

// InternalChild returns the i-th child pointer (i < InternalNumKeys).
func InternalChild(p *pager.Page, i uint32) uint32 {
	off := internalCellOffset(i)
	return binary.LittleEndian.Uint32(p.Data[off : off+InternalNodeChildSize])
}

// SetInternalChild overwrites the i-th child pointer.
func SetInternalChild(p *pager.Page, i uint32, child uint32) {
	off := internalCellOffset(i)
	binary.LittleEndian.PutUint32(p.Data[off:off+InternalNodeChildSize], child)
}

// InternalKey returns the i-th separator key.
func InternalKey(p *pager.Page, i uint32) uint32 {
	off := internalCellOffset(i) + InternalNodeChildSize
	return binary.LittleEndian.Uint32(p.Data[off : off+InternalNodeKeySize])
}

// SetInternalKey overwrites the i-th separator key.
func SetInternalKey(p *pager.Page, i uint32, key uint32) {
	off := internalCellOffset(i) + InternalNodeChildSize
	binary.LittleEndian.PutUint32(p.Data[off:off+InternalNodeKeySize], key)
}

// InitializeInternal resets the page to an empty internal node.
func InitializeInternal(p *pager.Page, isRoot bool) {
	SetNodeType(p, NodeTypeInternal)
	SetIsRoot(p, isRoot)
	SetInternalNumKeys(p, 0)
}
