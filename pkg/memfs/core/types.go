package core

import "fmt"

// Kind distinguishes directories from files where an operation accepts either.
type Kind int

const (
	// KindDirectory selects a directory
	KindDirectory Kind = iota
	// KindFile selects a file
	KindFile
)

// String returns the string representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// ParseKind accepts the short and long spellings used by the shell.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "d", "dir", "directory":
		return KindDirectory, nil
	case "f", "file":
		return KindFile, nil
	default:
		return 0, fmt.Errorf("%w: unknown kind %q (want dir or file)", ErrInvalidInput, s)
	}
}

// WriteMode selects how new content is combined with existing content.
type WriteMode int

const (
	// WriteOverwrite replaces the content entirely
	WriteOverwrite WriteMode = iota
	// WriteAppend concatenates new content to the existing content
	WriteAppend
)

func (m WriteMode) String() string {
	if m == WriteAppend {
		return "append"
	}
	return "overwrite"
}
