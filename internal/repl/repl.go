// Package repl implements the line-oriented front-end: it reads
// meta-commands and statements, prints the fixed "db > " prompt before
// every read, and drives a table.Table to execute what it parses.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"vqlite/table"
)

const prompt = "db > "

// Run executes the REPL loop against tbl, reading lines from in and
// writing the prompt and all statement/meta-command output to out. It
// returns nil after a clean ".exit", or the first I/O error encountered
// reading lines.
func Run(ctx context.Context, tbl *table.Table, in LineReader, out io.Writer, log *logrus.Logger) error {
	for {
		fmt.Fprint(out, prompt)

		line, err := in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, ".") {
			if runMetaCommand(out, tbl, line) == metaCommandExit {
				return nil
			}
			continue
		}

		executeStatement(ctx, out, tbl, line, log)
	}
}

func executeStatement(ctx context.Context, out io.Writer, tbl *table.Table, line string, log *logrus.Logger) {
	stmt, err := parseStatement(line)
	if err != nil {
		fmt.Fprintln(out, err.Error())
		return
	}

	switch stmt.kind {
	case statementInsert:
		if err := tbl.Insert(ctx, stmt.row); err != nil {
			if errors.Is(err, table.ErrDuplicateKey) {
				fmt.Fprintln(out, "Error: Duplicate key.")
				return
			}
			log.WithError(err).Error("insert failed")
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintln(out, "Executed.")

	case statementSelect:
		runSelect(ctx, out, tbl, log)
	}
}

func runSelect(ctx context.Context, out io.Writer, tbl *table.Table, log *logrus.Logger) {
	cur, err := tbl.Scan(ctx)
	if err != nil {
		log.WithError(err).Error("scan failed")
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}

	for !cur.EndOfTable() {
		row, err := cur.Value()
		if err != nil {
			log.WithError(err).Error("read row failed")
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		fmt.Fprintf(out, "(%d, %s, %s)\n", row.ID, row.Username, row.Email)
		if err := cur.Advance(); err != nil {
			log.WithError(err).Error("advance cursor failed")
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
	}
	fmt.Fprintln(out, "Executed.")
}
