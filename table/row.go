package table

import (
	"bytes"
	"encoding/binary"
)

// Row is the fixed, three-column schema this engine serves: a positive,
// unique id and two bounded text fields. Length limits are enforced by the
// statement parser at the REPL boundary; the codec itself never fails.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// EncodeRow serializes row into a RowSize-byte buffer: id as a
// little-endian uint32, followed by username and email as fixed-width,
// null-terminated, zero-padded byte sequences.
func EncodeRow(row Row) [RowSize]byte {
	var buf [RowSize]byte
	binary.LittleEndian.PutUint32(buf[IDOffset:IDOffset+IDSize], row.ID)
	copy(buf[UsernameOffset:UsernameOffset+UsernameSize], row.Username)
	copy(buf[EmailOffset:EmailOffset+EmailSize], row.Email)
	return buf
}

// DecodeRow reconstructs a Row from a RowSize-byte buffer previously
// produced by EncodeRow, stopping each text field at its first zero byte.
func DecodeRow(buf []byte) Row {
	return Row{
		ID:       binary.LittleEndian.Uint32(buf[IDOffset : IDOffset+IDSize]),
		Username: trimTerminator(buf[UsernameOffset : UsernameOffset+UsernameSize]),
		Email:    trimTerminator(buf[EmailOffset : EmailOffset+EmailSize]),
	}
}

func trimTerminator(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
