// Package memfs is an in-memory hierarchical file store. A Session holds the
// tree and a cursor into it; every structural operation is resolved against
// the cursor, while persistence always covers the whole tree.
package memfs

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/memfs/pkg/memfs/core"
	"github.com/arthur-debert/memfs/pkg/memfs/tree"
)

// Session owns a tree and the current directory within it. It is not safe
// for concurrent use.
type Session struct {
	root   *tree.Directory
	cwd    *tree.Directory
	clock  tree.Clock
	logger zerolog.Logger
	bus    *core.EventBus
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to stamp file timestamps.
func WithClock(clock tree.Clock) Option {
	return func(s *Session) {
		s.clock = clock
	}
}

// WithLogger sets the session logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithEventBus publishes session events on bus instead of a private one.
func WithEventBus(bus *core.EventBus) Option {
	return func(s *Session) {
		s.bus = bus
	}
}

// NewSession creates a session over root with the cursor at the root. A nil
// root starts an empty tree.
func NewSession(root *tree.Directory, opts ...Option) *Session {
	if root == nil {
		root = tree.NewRoot()
	}
	s := &Session{
		root:   root,
		cwd:    root,
		clock:  tree.SystemClock,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = core.NewEventBus(s.logger)
	}
	return s
}

// Root returns the root directory.
func (s *Session) Root() *tree.Directory { return s.root }

// Cwd returns the current directory.
func (s *Session) Cwd() *tree.Directory { return s.cwd }

// CwdPath returns the full path of the current directory.
func (s *Session) CwdPath() string { return tree.Path(s.cwd) }

// EventBus returns the bus session events are published on.
func (s *Session) EventBus() *core.EventBus { return s.bus }

// Replace swaps in a freshly loaded tree and moves the cursor to its root.
func (s *Session) Replace(root *tree.Directory) {
	s.root = root
	s.cwd = root
	s.logger.Debug().Msg("tree replaced")
	s.publish(core.EventTreeLoaded, core.KindDirectory, tree.Separator, "")
}

// CreateDirectory adds an empty subdirectory to the current directory.
func (s *Session) CreateDirectory(name string) error {
	return s.create(name, core.KindDirectory)
}

// CreateFile adds an empty file to the current directory.
func (s *Session) CreateFile(name string) error {
	return s.create(name, core.KindFile)
}

func (s *Session) create(name string, kind core.Kind) error {
	op := "create_" + kind.String()
	p := s.childPath(name)
	if err := tree.ValidateName(name); err != nil {
		return s.fail(op, p, err)
	}

	var n tree.Node
	event := core.EventFileCreated
	if kind == core.KindDirectory {
		n = tree.NewDirectory(name)
		event = core.EventDirectoryCreated
	} else {
		n = tree.NewFile(name, s.clock())
	}
	if err := s.cwd.Attach(n); err != nil {
		return s.fail(op, p, err)
	}

	s.logger.Debug().Str("op", op).Str("path", p).Msg("created")
	s.publish(event, kind, p, "")
	return nil
}

// DeleteDirectory removes a subdirectory of the current directory together
// with its whole subtree.
func (s *Session) DeleteDirectory(name string) error {
	return s.delete(name, core.KindDirectory)
}

// DeleteFile removes a file from the current directory.
func (s *Session) DeleteFile(name string) error {
	return s.delete(name, core.KindFile)
}

func (s *Session) delete(name string, kind core.Kind) error {
	op := "delete_" + kind.String()
	p := s.childPath(name)
	if _, err := s.cwd.Detach(name, kind); err != nil {
		return s.fail(op, p, err)
	}

	event := core.EventFileDeleted
	if kind == core.KindDirectory {
		event = core.EventDirectoryDeleted
	}
	s.logger.Debug().Str("op", op).Str("path", p).Msg("deleted")
	s.publish(event, kind, p, "")
	return nil
}

// Rename changes the name of a child of the current directory in place. The
// node keeps its identity and content. Renaming to the current name is a
// collision.
func (s *Session) Rename(oldName, newName string, kind core.Kind) error {
	from := s.childPath(oldName)
	if err := tree.ValidateName(newName); err != nil {
		return s.fail("rename", from, err)
	}
	if err := s.cwd.Rekey(oldName, newName, kind); err != nil {
		return s.fail("rename", from, err)
	}

	to := s.childPath(newName)
	s.logger.Debug().Str("op", "rename").Str("from", from).Str("path", to).Msg("renamed")
	s.publish(core.EventNodeRenamed, kind, to, from)
	return nil
}

// ChangeDirectory moves the cursor to a subdirectory of the current
// directory, or to its parent with "..".
func (s *Session) ChangeDirectory(selection string) error {
	if selection == ".." {
		if s.cwd.IsRoot() {
			return s.fail("change_directory", "..", fmt.Errorf("%w: already at root", core.ErrInvalidSelection))
		}
		s.cwd = s.cwd.Parent()
		return nil
	}

	dir, ok := s.cwd.Dir(selection)
	if !ok {
		return s.fail("change_directory", s.childPath(selection),
			fmt.Errorf("%w: no directory %q", core.ErrInvalidSelection, selection))
	}
	s.cwd = dir
	return nil
}

// DirectoryChoices lists what ChangeDirectory accepts from the current
// directory: subdirectory names in order, then ".." unless at the root.
func (s *Session) DirectoryChoices() []string {
	dirs := s.cwd.Dirs()
	choices := make([]string, 0, len(dirs)+1)
	for _, d := range dirs {
		choices = append(choices, d.Name())
	}
	if !s.cwd.IsRoot() {
		choices = append(choices, "..")
	}
	return choices
}

// Write replaces or extends the content of a file in the current directory.
// The content is copied.
func (s *Session) Write(name string, content []byte, mode core.WriteMode) error {
	p := s.childPath(name)
	f, ok := s.cwd.File(name)
	if !ok {
		return s.fail("write", p, fmt.Errorf("file %q: %w", name, core.ErrNotFound))
	}
	f.Write(content, mode, s.clock())

	s.logger.Debug().
		Str("op", "write").
		Str("path", p).
		Str("mode", mode.String()).
		Int("bytes", len(content)).
		Msg("file written")
	s.publish(core.EventFileWritten, core.KindFile, p, "")
	return nil
}

// Read returns a copy of a file's content.
func (s *Session) Read(name string) ([]byte, error) {
	f, ok := s.cwd.File(name)
	if !ok {
		return nil, s.fail("read", s.childPath(name), fmt.Errorf("file %q: %w", name, core.ErrNotFound))
	}
	return f.Content(), nil
}

// Move relinks a child of the current directory under target. Content,
// identity and timestamps are preserved. A directory cannot be moved into
// itself or one of its descendants.
func (s *Session) Move(name string, kind core.Kind, target *tree.Directory) error {
	from := s.childPath(name)
	n, err := s.checkTransfer("move", name, kind, target)
	if err != nil {
		return err
	}
	if dir, ok := n.(*tree.Directory); ok && dir.IsAncestorOf(target) {
		return s.fail("move", from, fmt.Errorf("%w: %s is inside %s", core.ErrInvalidPath, tree.Path(target), from))
	}

	if _, err := s.cwd.Detach(name, kind); err != nil {
		return s.fail("move", from, err)
	}
	if err := target.Attach(n); err != nil {
		// Unreachable after checkTransfer; put the node back regardless.
		_ = s.cwd.Attach(n)
		return s.fail("move", from, err)
	}

	to := tree.Path(n)
	s.logger.Debug().Str("op", "move").Str("from", from).Str("path", to).Msg("moved")
	s.publish(core.EventNodeMoved, kind, to, from)
	return nil
}

// Copy attaches a deep copy of a child of the current directory under
// target. Every copied node gets a fresh identity and fresh timestamps.
func (s *Session) Copy(name string, kind core.Kind, target *tree.Directory) error {
	from := s.childPath(name)
	n, err := s.checkTransfer("copy", name, kind, target)
	if err != nil {
		return err
	}

	// The clone is complete before it is attached, so copying a directory
	// into its own subtree terminates.
	now := s.clock()
	var clone tree.Node
	switch v := n.(type) {
	case *tree.Directory:
		clone = tree.CloneDirectory(v, now)
	case *tree.File:
		clone = tree.CloneFile(v, now)
	}
	if err := target.Attach(clone); err != nil {
		return s.fail("copy", from, err)
	}

	to := tree.Path(clone)
	s.logger.Debug().Str("op", "copy").Str("from", from).Str("path", to).Msg("copied")
	s.publish(core.EventNodeCopied, kind, to, from)
	return nil
}

// CopyFile copies a file of the current directory into target.
func (s *Session) CopyFile(name string, target *tree.Directory) error {
	return s.Copy(name, core.KindFile, target)
}

// CopyDirectory deep-copies a subdirectory of the current directory into
// target.
func (s *Session) CopyDirectory(name string, target *tree.Directory) error {
	return s.Copy(name, core.KindDirectory, target)
}

// MoveTo resolves a root-relative path and moves the child there.
func (s *Session) MoveTo(name string, kind core.Kind, path string) error {
	target, err := tree.Resolve(s.root, path)
	if err != nil {
		return s.fail("move", s.childPath(name), err)
	}
	return s.Move(name, kind, target)
}

// CopyTo resolves a root-relative path and copies the child there.
func (s *Session) CopyTo(name string, kind core.Kind, path string) error {
	target, err := tree.Resolve(s.root, path)
	if err != nil {
		return s.fail("copy", s.childPath(name), err)
	}
	return s.Copy(name, kind, target)
}

func (s *Session) checkTransfer(op, name string, kind core.Kind, target *tree.Directory) (tree.Node, error) {
	from := s.childPath(name)
	if target == nil || target.Root() != s.root {
		return nil, s.fail(op, from, fmt.Errorf("%w: target is not part of this tree", core.ErrInvalidPath))
	}
	n, ok := s.cwd.Lookup(name, kind)
	if !ok {
		return nil, s.fail(op, from, fmt.Errorf("%s %q: %w", kind, name, core.ErrNotFound))
	}
	if target.Has(name) {
		return nil, s.fail(op, from, fmt.Errorf("%q in %s: %w", name, tree.Path(target), core.ErrNameCollision))
	}
	return n, nil
}

// DeleteAll empties the whole tree and returns the cursor to the root. It
// does nothing and fails with core.ErrNotConfirmed unless confirm is set.
func (s *Session) DeleteAll(confirm bool) error {
	if !confirm {
		return s.fail("delete_all", tree.Separator, core.ErrNotConfirmed)
	}
	dirs, files := s.root.Counts()
	s.root.Clear()
	s.cwd = s.root

	s.logger.Info().Int("directories", dirs).Int("files", files).Msg("tree cleared")
	s.publish(core.EventTreeCleared, core.KindDirectory, tree.Separator, "")
	return nil
}

// BatchResult is the outcome of one name in BatchCreateFiles.
type BatchResult struct {
	Name string
	Err  error
}

// BatchCreateFiles creates one file per comma-separated name. Each name
// succeeds or fails on its own; empty segments are skipped.
func (s *Session) BatchCreateFiles(list string) []BatchResult {
	var results []BatchResult
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		results = append(results, BatchResult{Name: name, Err: s.CreateFile(name)})
	}
	return results
}

func (s *Session) childPath(name string) string {
	return tree.Join(tree.Path(s.cwd), name)
}

func (s *Session) fail(op, path string, err error) error {
	wrapped := core.WrapOperationError(op, path, err)
	s.logger.Info().Str("op", op).Str("path", path).Err(err).Msg("operation rejected")
	return wrapped
}

func (s *Session) publish(eventType string, kind core.Kind, path, from string) {
	s.bus.Publish(context.Background(), core.NewEvent(eventType, core.NodeChange{
		Kind: kind,
		Path: path,
		From: from,
	}))
}
