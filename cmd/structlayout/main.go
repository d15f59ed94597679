package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/structlayout/format"
	"github.com/wippyai/structlayout/memory"
	"github.com/wippyai/structlayout/record"
	"github.com/wippyai/structlayout/schema"
	"github.com/wippyai/structlayout/witabi"
)

func main() {
	var (
		schemaFiles = flag.String("schema", "", "Schema files (a.toml,b.toml)")
		recordName  = flag.String("record", "", "Only show this record")
		offsetOf    = flag.String("offset", "", "Print the bit offset of this field (requires -record)")
		showWIT     = flag.Bool("wit", false, "Print the WIT projection and check it against the canonical ABI")
		showZero    = flag.Bool("zero", false, "Dump a zeroed instance of each record")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *schemaFiles == "" {
		fmt.Fprintln(os.Stderr, "Usage: structlayout -schema <a.toml[,b.toml]> [-record Name] [-offset field] [-wit] [-zero]")
		fmt.Fprintln(os.Stderr, "       structlayout -schema <file.toml> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = log.Sync() }()
		record.SetLogger(log.Named("record"))
		schema.SetLogger(log.Named("schema"))
		memory.SetLogger(log.Named("memory"))
	}

	paths := strings.Split(*schemaFiles, ",")
	styled := term.IsTerminal(int(os.Stdout.Fd()))

	if *interactive {
		if !styled {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(paths); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := runOptions{
		record: *recordName,
		offset: *offsetOf,
		wit:    *showWIT,
		zero:   *showZero,
		styled: styled,
	}
	if err := run(paths, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	record string
	offset string
	wit    bool
	zero   bool
	styled bool
}

func run(paths []string, opts runOptions) error {
	ctx := context.Background()

	schemas, err := schema.LoadFiles(ctx, paths)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	recs, err := selectRecords(schemas, opts.record)
	if err != nil {
		return err
	}

	if opts.offset != "" {
		if opts.record == "" {
			return fmt.Errorf("-offset requires -record")
		}
		bits, err := record.Offsetof(recs[0], opts.offset)
		if err != nil {
			return err
		}
		fmt.Println(describeOffset(bits))
		return nil
	}

	p := newPrinter(opts.styled)
	for _, s := range schemas {
		if opts.record == "" {
			fmt.Println(p.header(s))
		}
	}
	for _, rec := range recs {
		fmt.Println(p.layout(rec))
	}

	if opts.wit {
		proj := witabi.NewProjector()
		for _, rec := range recs {
			if _, err := proj.Project(rec); err != nil {
				fmt.Println(p.warn(fmt.Sprintf("%s: %v", rec.Name(), err)))
				continue
			}
			if err := witabi.Check(rec); err != nil {
				fmt.Println(p.warn(err.Error()))
			}
		}
		fmt.Print(witabi.Render(proj.Defs()...))
	}

	if opts.zero {
		lin, err := memory.NewLinear(ctx, 1)
		if err != nil {
			return err
		}
		defer lin.Close(ctx)
		for _, rec := range recs {
			addr, err := lin.Alloc(rec.Size(), rec.Align())
			if err != nil {
				return err
			}
			out, err := format.Dump(rec.At(lin, addr))
			if err != nil {
				return err
			}
			fmt.Println(out)
		}
	}
	return nil
}

// selectRecords returns every record of every schema, or the one named.
func selectRecords(schemas []*schema.Schema, name string) ([]*record.Record, error) {
	var recs []*record.Record
	for _, s := range schemas {
		if name == "" {
			recs = append(recs, s.Records...)
			continue
		}
		if rec, ok := s.Lookup(name); ok {
			return []*record.Record{rec}, nil
		}
	}
	if name != "" {
		return nil, fmt.Errorf("record %q not found", name)
	}
	return recs, nil
}

func describeOffset(bits uint64) string {
	if bits%8 == 0 {
		return fmt.Sprintf("bit %d (byte %d)", bits, bits/8)
	}
	return fmt.Sprintf("bit %d (byte %d + %d bits)", bits, bits/8, bits%8)
}
