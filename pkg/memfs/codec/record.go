// Package codec reads and writes the flat record stream that persists a tree.
//
// A store is a sequence of records:
//
//	D|<full/path>
//	F|<full/path>|<createdAt>|<modifiedAt>|<byteLength>
//	<raw content bytes><separator>
//
// File content is framed by its byte length, never by line boundaries, so
// it may contain any byte including the separator itself.
package codec

import (
	"fmt"
	"time"
)

// TimeLayout renders file timestamps in local time.
const TimeLayout = "2006-01-02 15:04:05"

// Separator terminates record headers and file content.
const Separator = '\n'

const (
	dirPrefix   = "D|"
	filePrefix  = "F|"
	fieldSep    = "|"
	fileFields  = 4
	maxFileSize = 1 << 32
)

// RecordType tags a record as a directory or a file.
type RecordType byte

const (
	RecordDirectory RecordType = 'D'
	RecordFile      RecordType = 'F'
)

func (t RecordType) String() string {
	switch t {
	case RecordDirectory:
		return "directory"
	case RecordFile:
		return "file"
	default:
		return fmt.Sprintf("RecordType(%q)", byte(t))
	}
}

// Record is one decoded store entry. Only file records carry timestamps
// and content.
type Record struct {
	Type       RecordType
	Path       string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Content    []byte
}

// FormatTime renders t the way the store keeps it.
func FormatTime(t time.Time) string {
	return t.In(time.Local).Format(TimeLayout)
}

// ParseTime reads a store timestamp as local time.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, s, time.Local)
}
