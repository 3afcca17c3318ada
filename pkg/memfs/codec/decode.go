package codec

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arthur-debert/memfs/pkg/memfs/core"
)

// Decode parses every record in r. It does not touch any tree; a malformed
// record fails the whole decode with an error matching
// core.ErrMalformedRecord.
func Decode(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	var records []Record

	for n := 1; ; n++ {
		line, err := br.ReadString(Separator)
		if errors.Is(err, io.EOF) {
			if line == "" {
				return records, nil
			}
			return nil, &core.RecordError{Record: n, Reason: "truncated record header"}
		}
		if err != nil {
			return nil, &core.RecordError{Record: n, Reason: "read failed", Cause: err}
		}
		line = strings.TrimSuffix(line, string(Separator))

		switch {
		case strings.HasPrefix(line, dirPrefix):
			records = append(records, Record{Type: RecordDirectory, Path: line[len(dirPrefix):]})
		case strings.HasPrefix(line, filePrefix):
			rec, err := decodeFile(br, line[len(filePrefix):], n)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		default:
			return nil, &core.RecordError{Record: n, Reason: "unknown record type " + strconv.Quote(line)}
		}
	}
}

// decodeFile parses a file header and reads exactly the declared number of
// content bytes plus the trailing separator.
func decodeFile(br *bufio.Reader, header string, n int) (Record, error) {
	fields := strings.SplitN(header, fieldSep, fileFields)
	if len(fields) != fileFields {
		return Record{}, &core.RecordError{Record: n, Reason: "file header needs path, createdAt, modifiedAt and length"}
	}

	createdAt, err := ParseTime(fields[1])
	if err != nil {
		return Record{}, &core.RecordError{Record: n, Reason: "invalid createdAt", Cause: err}
	}
	modifiedAt, err := ParseTime(fields[2])
	if err != nil {
		return Record{}, &core.RecordError{Record: n, Reason: "invalid modifiedAt", Cause: err}
	}
	size, err := strconv.ParseUint(fields[3], 10, 64)
	if err != nil {
		return Record{}, &core.RecordError{Record: n, Reason: "invalid length", Cause: err}
	}
	if size > maxFileSize {
		return Record{}, &core.RecordError{Record: n, Reason: "length " + fields[3] + " exceeds limit"}
	}

	// The buffer grows with the bytes that arrive, not with the declared
	// length, so a corrupt header cannot force a huge allocation.
	var content bytes.Buffer
	copied, err := io.CopyN(&content, br, int64(size))
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return Record{}, &core.RecordError{
			Record: n,
			Reason: fmt.Sprintf("short content: %d of %d bytes", copied, size),
			Cause:  err,
		}
	}
	sep, err := br.ReadByte()
	if err != nil {
		return Record{}, &core.RecordError{Record: n, Reason: "missing content separator", Cause: err}
	}
	if sep != Separator {
		return Record{}, &core.RecordError{Record: n, Reason: "content not followed by separator"}
	}

	return Record{
		Type:       RecordFile,
		Path:       fields[0],
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		Content:    content.Bytes(),
	}, nil
}
