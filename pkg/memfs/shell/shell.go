// Package shell drives a memfs session from line-oriented input. Errors from
// a command are printed and the loop continues; leaving the shell saves the
// tree.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/memfs/pkg/memfs"
	"github.com/arthur-debert/memfs/pkg/memfs/core"
	"github.com/arthur-debert/memfs/pkg/memfs/tree"
)

// Saver persists a whole tree. *store.Store implements it.
type Saver interface {
	Save(ctx context.Context, root *tree.Directory) error
}

// Options tune the shell's input conventions.
type Options struct {
	// EOFMarker is the line that ends content typed into write.
	EOFMarker string
	// Prompt prefixes the current path in the command prompt.
	Prompt string
	Logger zerolog.Logger
}

var errExit = errors.New("exit")

// Shell reads commands from an input stream and prints results.
type Shell struct {
	session *memfs.Session
	saver   Saver
	in      *bufio.Reader
	out     io.Writer
	opts    Options
	logger  zerolog.Logger
	subs    []core.SubscriptionID

	unsaved int
}

// New creates a shell over session. Every mutation published on the
// session's bus counts as an unsaved change until the next save.
func New(session *memfs.Session, saver Saver, in io.Reader, out io.Writer, opts Options) *Shell {
	if opts.EOFMarker == "" {
		opts.EOFMarker = "EOF"
	}
	if opts.Prompt == "" {
		opts.Prompt = "memfs"
	}
	sh := &Shell{
		session: session,
		saver:   saver,
		in:      bufio.NewReader(in),
		out:     out,
		opts:    opts,
		logger:  opts.Logger,
	}

	bus := session.EventBus()
	sh.subs = append(sh.subs, bus.SubscribeAll(core.MutationEvents, core.EventHandlerFunc(func(ctx context.Context, event core.Event) error {
		sh.unsaved++
		return nil
	}))...)
	sh.subs = append(sh.subs, bus.Subscribe(core.EventTreeLoaded, core.EventHandlerFunc(func(ctx context.Context, event core.Event) error {
		sh.unsaved = 0
		return nil
	})))
	sh.subs = append(sh.subs, bus.SubscribeAll(append([]string{core.EventTreeLoaded}, core.MutationEvents...), core.LogHandler(sh.logger))...)
	return sh
}

// Close detaches the shell's handlers from the session's bus. Run calls it
// on return; calling it again is a no-op.
func (sh *Shell) Close() {
	bus := sh.session.EventBus()
	for _, id := range sh.subs {
		bus.Unsubscribe(id)
	}
	sh.subs = nil
}

// Unsaved returns the number of mutations since the last save or load.
func (sh *Shell) Unsaved() int {
	return sh.unsaved
}

// Run executes commands until exit or end of input, then saves the tree.
// A failed final save is reported on the output but not returned; only a
// canceled context ends Run with an error. The shell is closed on return.
func (sh *Shell) Run(ctx context.Context) error {
	defer sh.Close()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		sh.printf("%s:%s> ", sh.opts.Prompt, sh.session.CwdPath())

		line, err := sh.readLine()
		if errors.Is(err, io.EOF) {
			sh.printf("\n")
			break
		}
		if err != nil {
			return fmt.Errorf("read command: %w", err)
		}

		err = sh.Exec(ctx, line)
		if errors.Is(err, errExit) {
			break
		}
		if err != nil {
			sh.printf("error: %v\n", err)
		}
	}

	if err := sh.save(ctx); err != nil {
		sh.printf("error: %v\n", err)
		return nil
	}
	sh.printf("saved. goodbye\n")
	return nil
}

// Exec runs a single command line.
func (sh *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := fields[0], fields[1:]

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q (try help)", core.ErrInvalidInput, name)
	}
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return fmt.Errorf("%w: usage: %s", core.ErrInvalidInput, cmd.usage)
	}

	sh.logger.Debug().Str("command", name).Strs("args", args).Msg("exec")
	return cmd.run(sh, ctx, args)
}

func (sh *Shell) save(ctx context.Context) error {
	if err := sh.saver.Save(ctx, sh.session.Root()); err != nil {
		return err
	}
	sh.unsaved = 0
	return nil
}

// readLine returns the next line without its terminator. A final line
// without a newline is still returned; io.EOF comes on the call after.
func (sh *Shell) readLine() (string, error) {
	line, err := sh.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (sh *Shell) printf(format string, args ...any) {
	fmt.Fprintf(sh.out, format, args...)
}
