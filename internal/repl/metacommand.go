package repl

import (
	"fmt"
	"io"

	"vqlite/table"
)

// metaCommandOutcome tells Run whether the session should keep reading
// input after handling a "." line.
type metaCommandOutcome int

const (
	metaCommandContinue metaCommandOutcome = iota
	metaCommandExit
)

// runMetaCommand dispatches a "." line. Unrecognized commands print a
// message and continue; ".exit" asks the caller to stop the session.
func runMetaCommand(out io.Writer, tbl *table.Table, line string) metaCommandOutcome {
	switch line {
	case ".exit":
		return metaCommandExit
	case ".constants":
		printConstants(out)
	case ".btree":
		fmt.Fprintln(out, "Tree:")
		if err := tbl.PrintTree(out); err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	default:
		fmt.Fprintf(out, "Unrecognized command '%s'.\n", line)
	}
	return metaCommandContinue
}

func printConstants(out io.Writer) {
	fmt.Fprintln(out, "Constants:")
	fmt.Fprintf(out, "ROW_SIZE: %d\n", table.RowSize)
	fmt.Fprintf(out, "COMMON_NODE_HEADER_SIZE: %d\n", table.CommonNodeHeaderSize)
	fmt.Fprintf(out, "LEAF_NODE_HEADER_SIZE: %d\n", table.LeafNodeHeaderSize)
	fmt.Fprintf(out, "LEAF_NODE_CELL_SIZE: %d\n", table.LeafNodeCellSize)
	fmt.Fprintf(out, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", table.LeafNodeSpaceForCells)
	fmt.Fprintf(out, "LEAF_NODE_MAX_CELLS: %d\n", table.LeafNodeMaxCells)
}
