package repl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vqlite/table"
)

func TestParseInsertValid(t *testing.T) {
	stmt, err := parseStatement("insert 7 bob bob@example.com")
	require.NoError(t, err)
	require.Equal(t, statementInsert, stmt.kind)
	require.Equal(t, table.Row{ID: 7, Username: "bob", Email: "bob@example.com"}, stmt.row)
}

func TestParseSelect(t *testing.T) {
	stmt, err := parseStatement("select")
	require.NoError(t, err)
	require.Equal(t, statementSelect, stmt.kind)
}

func TestParseInsertMissingTokens(t *testing.T) {
	_, err := parseStatement("insert 7 bob")
	require.Equal(t, errSyntax, err)
}

func TestParseInsertNonPositiveID(t *testing.T) {
	_, err := parseStatement("insert 0 bob bob@example.com")
	require.Equal(t, errIDNotPositive, err)

	_, err = parseStatement("insert -5 bob bob@example.com")
	require.Equal(t, errIDNotPositive, err)
}

func TestParseInsertUsernameTooLong(t *testing.T) {
	longUsername := make([]byte, table.UsernameSize+1)
	for i := range longUsername {
		longUsername[i] = 'a'
	}
	_, err := parseStatement("insert 1 " + string(longUsername) + " bob@example.com")
	require.Equal(t, errStringTooLong, err)
}

func TestParseInsertEmailTooLong(t *testing.T) {
	longEmail := make([]byte, table.EmailSize+1)
	for i := range longEmail {
		longEmail[i] = 'a'
	}
	_, err := parseStatement("insert 1 bob " + string(longEmail))
	require.Equal(t, errStringTooLong, err)
}

func TestParseUnrecognizedKeyword(t *testing.T) {
	_, err := parseStatement("delete 1")
	require.EqualError(t, err, "Unrecognized keyword at start of 'delete 1'.")
}
