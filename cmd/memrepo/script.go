package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/poiesic/memrepo/core"
	"github.com/poiesic/memrepo/ingestion"
	"github.com/poiesic/memrepo/storage"
	"github.com/urfave/cli/v2"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
)

// interpreter executes script lines against one store for the life of the process.
type interpreter struct {
	store  storage.Store[core.Item, core.ID]
	loader *ingestion.Loader
	out    io.Writer
}

func runCommand(c *cli.Context) error {
	ctx, cancel := commandContext(c)
	defer cancel()

	var src io.Reader
	if name := c.String("script"); name == "-" {
		src = os.Stdin
	} else {
		f, err := os.Open(name)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		defer f.Close()
		src = f
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	loader, err := db.NewLoader()
	if err != nil {
		return err
	}
	defer loader.Release()

	in := &interpreter{store: db.Store(), loader: loader, out: c.App.Writer}
	return in.run(ctx, src)
}

// run executes every line of src, stopping at the first failing command.
func (in *interpreter) run(ctx context.Context, src io.Reader) error {
	scanner := bufio.NewScanner(src)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := in.exec(ctx, line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func (in *interpreter) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "save":
		if len(args) < 1 {
			return fmt.Errorf("%w: save <name> [contents...]", errUsage)
		}
		saved, err := in.loader.Load(ctx, &core.Item{
			Name:     args[0],
			Contents: strings.Join(args[1:], " "),
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(in.out, "saved %d\n", saved[0].Id)

	case "find":
		id, err := parseID(cmd, args)
		if err != nil {
			return err
		}
		item, ok, err := in.store.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(in.out, "not found %d\n", id)
			return nil
		}
		return printItems(in.out, item)

	case "delete":
		id, err := parseID(cmd, args)
		if err != nil {
			return err
		}
		if err := in.store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(in.out, "deleted %d\n", id)

	case "all":
		items, err := in.store.All(ctx)
		if err != nil {
			return err
		}
		return printItems(in.out, items...)

	case "count":
		items, err := in.store.All(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.out, len(items))

	default:
		return fmt.Errorf("%w %q", errUnknownCommand, cmd)
	}
	return nil
}

func parseID(cmd string, args []string) (core.ID, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: %s <id>", errUsage, cmd)
	}
	v, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", args[0], err)
	}
	return core.ID(v), nil
}

// printItems writes one tab-aligned row per item: id, name, contents.
func printItems(w io.Writer, items ...core.Item) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, item := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", item.Id, item.Name, item.Contents)
	}
	return tw.Flush()
}
