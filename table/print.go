package table

import (
	"fmt"
	"io"
)

// PrintTree writes a human-readable dump of the tree rooted at page 0 to
// w, in the format the .btree meta-command surfaces: "leaf (size N)"
// followed by one "  - i : key" line per cell for a single-leaf tree, or
// nested "internal (size N)" / indented child blocks once a split has
// produced interior nodes.
func (t *Table) PrintTree(w io.Writer) error {
	return printNode(w, t.tree, rootPageNum, 0)
}

func printNode(w io.Writer, tree *BTree, pageNum uint32, indent int) error {
	page, err := tree.pager.GetPage(pageNum)
	if err != nil {
		return err
	}
	pad := func(extra int) string {
		s := ""
		for i := 0; i < indent+extra; i++ {
			s += "  "
		}
		return s
	}

	if NodeType(page) == NodeTypeLeaf {
		n := LeafNumCells(page)
		fmt.Fprintf(w, "%sleaf (size %d)\n", pad(0), n)
		for i := uint32(0); i < n; i++ {
			fmt.Fprintf(w, "%s- %d : %d\n", pad(1), i, LeafKey(page, i))
		}
		return nil
	}

	numKeys := InternalNumKeys(page)
	fmt.Fprintf(w, "%sinternal (size %d)\n", pad(0), numKeys)
	for i := uint32(0); i < numKeys; i++ {
		if err := printNode(w, tree, InternalChild(page, i), indent+1); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s- key %d\n", pad(1), InternalKey(page, i))
	}
	return printNode(w, tree, InternalRightChild(page), indent+1)
}
