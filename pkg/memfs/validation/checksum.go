// Package validation checks tree invariants and fingerprints file content.
package validation

import (
	"crypto/md5"
	"fmt"
	"time"

	"github.com/arthur-debert/memfs/pkg/memfs/tree"
)

// ChecksumRecord stores file checksum information
type ChecksumRecord struct {
	Path         string
	MD5          string
	Size         int64
	ModTime      time.Time
	ChecksumTime time.Time
}

// ComputeFileChecksum calculates the MD5 checksum of a file's content and
// gathers its metadata.
func ComputeFileChecksum(f *tree.File) *ChecksumRecord {
	content := f.Content()
	return &ChecksumRecord{
		Path:         tree.Path(f),
		MD5:          fmt.Sprintf("%x", md5.Sum(content)),
		Size:         int64(len(content)),
		ModTime:      f.ModifiedAt(),
		ChecksumTime: time.Now(),
	}
}

// Matches reports whether f still has the content the record was taken from.
func (c *ChecksumRecord) Matches(f *tree.File) bool {
	return ComputeFileChecksum(f).MD5 == c.MD5
}
