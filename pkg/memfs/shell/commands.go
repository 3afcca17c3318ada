package shell

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/memfs/pkg/memfs/codec"
	"github.com/arthur-debert/memfs/pkg/memfs/core"
)

type command struct {
	usage   string
	help    string
	minArgs int
	maxArgs int // -1 for no limit
	run     func(sh *Shell, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"ls":     {"ls", "list the current directory", 0, 0, (*Shell).list},
		"pwd":    {"pwd", "print the current path", 0, 0, (*Shell).pwd},
		"info":   {"info", "describe the current directory", 0, 0, (*Shell).info},
		"cd":     {"cd SEL|..", "change directory", 1, 1, (*Shell).cd},
		"mkdir":  {"mkdir NAME", "create a directory", 1, 1, (*Shell).mkdir},
		"touch":  {"touch NAME", "create an empty file", 1, 1, (*Shell).touch},
		"rmdir":  {"rmdir SEL", "delete a directory and everything in it", 1, 1, (*Shell).rmdir},
		"rm":     {"rm SEL", "delete a file", 1, 1, (*Shell).rm},
		"rename": {"rename dir|file SEL NEWNAME", "rename in place", 3, 3, (*Shell).rename},
		"write":  {"write SEL [append]", "write lines until the end marker", 1, 2, (*Shell).write},
		"cat":    {"cat SEL", "print a file", 1, 1, (*Shell).cat},
		"stat":   {"stat SEL", "show file metadata", 1, 1, (*Shell).stat},
		"mv":     {"mv dir|file SEL PATH", "move to a path from the root", 3, 3, (*Shell).mv},
		"cp":     {"cp dir|file SEL PATH", "copy to a path from the root", 3, 3, (*Shell).cp},
		"find":   {"find PATTERN", "find files here whose name contains PATTERN", 1, 1, (*Shell).find},
		"glob":   {"glob PATTERN", "match file paths below here, e.g. **/*.txt", 1, 1, (*Shell).glob},
		"batch":  {"batch NAME,NAME,...", "create several files", 1, -1, (*Shell).batch},
		"wipe":   {"wipe", "delete everything (asks first)", 0, 0, (*Shell).wipe},
		"tree":   {"tree", "print the whole tree", 0, 0, (*Shell).tree},
		"save":   {"save", "save now", 0, 0, (*Shell).saveCmd},
		"help":   {"help", "show this help", 0, 0, (*Shell).help},
		"exit":   {"exit", "save and leave", 0, 0, (*Shell).exit},
		"quit":   {"quit", "save and leave", 0, 0, (*Shell).exit},
	}
}

// selectName turns SEL into a child name. An existing name wins; otherwise
// a number picks from the listing. Anything else is passed through and
// reported as not found by the operation.
func (sh *Shell) selectName(sel string, kind core.Kind) (string, error) {
	if _, ok := sh.session.Cwd().Lookup(sel, kind); ok {
		return sel, nil
	}
	n, err := strconv.Atoi(sel)
	if err != nil {
		return sel, nil
	}
	if kind == core.KindDirectory {
		return sh.session.SelectDirectory(n)
	}
	return sh.session.SelectFile(n)
}

func (sh *Shell) list(ctx context.Context, args []string) error {
	l := sh.session.List()
	sh.printf("%s\n", l.Path)
	if len(l.Dirs) == 0 && len(l.Files) == 0 {
		sh.printf("  (empty)\n")
		return nil
	}
	for _, d := range l.Dirs {
		sh.printf("  d %2d  %s/  (%d dirs, %d files)\n", d.Index, d.Name, d.Dirs, d.Files)
	}
	for _, f := range l.Files {
		sh.printf("  f %2d  %s  %d bytes  created %s  modified %s\n",
			f.Index, f.Name, f.Size, codec.FormatTime(f.CreatedAt), codec.FormatTime(f.ModifiedAt))
	}
	return nil
}

func (sh *Shell) pwd(ctx context.Context, args []string) error {
	sh.printf("%s\n", sh.session.CwdPath())
	return nil
}

func (sh *Shell) info(ctx context.Context, args []string) error {
	info := sh.session.DirectoryInfo()
	sh.printf("name: %s\npath: %s\ndirectories: %d\nfiles: %d\n", info.Name, info.Path, info.Dirs, info.Files)
	return nil
}

func (sh *Shell) cd(ctx context.Context, args []string) error {
	sel := args[0]
	if sel != ".." {
		if _, ok := sh.session.Cwd().Dir(sel); !ok {
			if n, err := strconv.Atoi(sel); err == nil {
				choice, err := sh.session.SelectChoice(n)
				if err != nil {
					return err
				}
				sel = choice
			}
		}
	}
	return sh.session.ChangeDirectory(sel)
}

func (sh *Shell) mkdir(ctx context.Context, args []string) error {
	if err := sh.session.CreateDirectory(args[0]); err != nil {
		return err
	}
	sh.printf("directory created: %s\n", args[0])
	return nil
}

func (sh *Shell) touch(ctx context.Context, args []string) error {
	if err := sh.session.CreateFile(args[0]); err != nil {
		return err
	}
	sh.printf("file created: %s\n", args[0])
	return nil
}

func (sh *Shell) rmdir(ctx context.Context, args []string) error {
	name, err := sh.selectName(args[0], core.KindDirectory)
	if err != nil {
		return err
	}
	if err := sh.session.DeleteDirectory(name); err != nil {
		return err
	}
	sh.printf("directory deleted: %s\n", name)
	return nil
}

func (sh *Shell) rm(ctx context.Context, args []string) error {
	name, err := sh.selectName(args[0], core.KindFile)
	if err != nil {
		return err
	}
	if err := sh.session.DeleteFile(name); err != nil {
		return err
	}
	sh.printf("file deleted: %s\n", name)
	return nil
}

func (sh *Shell) rename(ctx context.Context, args []string) error {
	kind, err := core.ParseKind(args[0])
	if err != nil {
		return err
	}
	name, err := sh.selectName(args[1], kind)
	if err != nil {
		return err
	}
	if err := sh.session.Rename(name, args[2], kind); err != nil {
		return err
	}
	sh.printf("renamed %s to %s\n", name, args[2])
	return nil
}

func (sh *Shell) write(ctx context.Context, args []string) error {
	mode := core.WriteOverwrite
	if len(args) == 2 {
		if args[1] != "append" {
			return fmt.Errorf("%w: usage: %s", core.ErrInvalidInput, commands["write"].usage)
		}
		mode = core.WriteAppend
	}
	name, err := sh.selectName(args[0], core.KindFile)
	if err != nil {
		return err
	}
	if _, ok := sh.session.Cwd().File(name); !ok {
		// Fail before consuming any content lines.
		return sh.session.Write(name, nil, mode)
	}

	sh.printf("enter content, end with a line containing only %s\n", sh.opts.EOFMarker)
	var buf bytes.Buffer
	for {
		line, err := sh.readLine()
		if err != nil {
			break
		}
		if line == sh.opts.EOFMarker {
			break
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	if err := sh.session.Write(name, buf.Bytes(), mode); err != nil {
		return err
	}
	sh.printf("%d bytes written to %s (%s)\n", buf.Len(), name, mode)
	return nil
}

func (sh *Shell) cat(ctx context.Context, args []string) error {
	name, err := sh.selectName(args[0], core.KindFile)
	if err != nil {
		return err
	}
	content, err := sh.session.Read(name)
	if err != nil {
		return err
	}
	if _, err := sh.out.Write(content); err != nil {
		return err
	}
	if len(content) > 0 && content[len(content)-1] != '\n' {
		sh.printf("\n")
	}
	return nil
}

func (sh *Shell) stat(ctx context.Context, args []string) error {
	name, err := sh.selectName(args[0], core.KindFile)
	if err != nil {
		return err
	}
	info, err := sh.session.Stat(name)
	if err != nil {
		return err
	}
	sh.printf("name: %s\npath: %s\nid: %s\nsize: %d\ntype: %s\nmd5: %s\ncreated: %s\nmodified: %s\n",
		info.Name, info.Path, info.ID, info.Size, info.MIMEType, info.MD5,
		codec.FormatTime(info.CreatedAt), codec.FormatTime(info.ModifiedAt))
	return nil
}

func (sh *Shell) mv(ctx context.Context, args []string) error {
	kind, err := core.ParseKind(args[0])
	if err != nil {
		return err
	}
	name, err := sh.selectName(args[1], kind)
	if err != nil {
		return err
	}
	if err := sh.session.MoveTo(name, kind, args[2]); err != nil {
		return err
	}
	sh.printf("moved %s to %s\n", name, args[2])
	return nil
}

func (sh *Shell) cp(ctx context.Context, args []string) error {
	kind, err := core.ParseKind(args[0])
	if err != nil {
		return err
	}
	name, err := sh.selectName(args[1], kind)
	if err != nil {
		return err
	}
	if err := sh.session.CopyTo(name, kind, args[2]); err != nil {
		return err
	}
	sh.printf("copied %s to %s\n", name, args[2])
	return nil
}

func (sh *Shell) find(ctx context.Context, args []string) error {
	matches := sh.session.Search(args[0])
	if len(matches) == 0 {
		sh.printf("no matches\n")
		return nil
	}
	for _, m := range matches {
		sh.printf("%s\n", m)
	}
	return nil
}

func (sh *Shell) glob(ctx context.Context, args []string) error {
	matches, err := sh.session.Glob(args[0])
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		sh.printf("no matches\n")
		return nil
	}
	for _, m := range matches {
		sh.printf("%s\n", m)
	}
	return nil
}

func (sh *Shell) batch(ctx context.Context, args []string) error {
	for _, r := range sh.session.BatchCreateFiles(strings.Join(args, " ")) {
		if r.Err != nil {
			sh.printf("  %s: %v\n", r.Name, r.Err)
			continue
		}
		sh.printf("  %s: created\n", r.Name)
	}
	return nil
}

func (sh *Shell) wipe(ctx context.Context, args []string) error {
	sh.printf("delete everything? (y/n): ")
	answer, err := sh.readLine()
	if err != nil {
		return sh.session.DeleteAll(false)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		if err := sh.session.DeleteAll(true); err != nil {
			return err
		}
		sh.printf("everything deleted\n")
		return nil
	case "n", "no":
		sh.printf("cancelled\n")
		return nil
	default:
		return fmt.Errorf("%w: answer y or n, nothing was deleted", core.ErrInvalidInput)
	}
}

func (sh *Shell) tree(ctx context.Context, args []string) error {
	return sh.session.RenderTree(sh.out)
}

func (sh *Shell) saveCmd(ctx context.Context, args []string) error {
	if err := sh.save(ctx); err != nil {
		return err
	}
	sh.printf("saved\n")
	return nil
}

func (sh *Shell) help(ctx context.Context, args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	sh.printf("SEL is a name or the number shown by ls\n")
	for _, name := range names {
		cmd := commands[name]
		sh.printf("  %-28s %s\n", cmd.usage, cmd.help)
	}
	return nil
}

func (sh *Shell) exit(ctx context.Context, args []string) error {
	return errExit
}
