// Package main provides the jbind-dump CLI: it reads a JSON document
// through the engine's tree pipeline and re-emits it with the requested
// output shape, which makes it a quick way to normalize, pretty-print, or
// lint a document against strict parsing.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"github.com/zoobzio/jbind"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:      "jbind-dump",
		Version:   version,
		Usage:     "Parse a JSON document and re-emit it through the jbind engine",
		ArgsUsage: "[file]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "pretty",
				Aliases: []string{"p"},
				Usage:   "indent output with two spaces",
			},
			&cli.BoolFlag{
				Name:  "lenient",
				Usage: "tolerate comments, trailing commas, and unquoted names on input",
			},
			&cli.BoolFlag{
				Name:  "html-safe",
				Usage: "escape HTML-unsafe characters in strings",
			},
			&cli.BoolFlag{
				Name:  "omit-nulls",
				Usage: "drop object members whose value is null",
			},
			&cli.BoolFlag{
				Name:  "prefix",
				Usage: "emit (and accept) the )]}' non-executable prefix",
			},
		},
		Action: runDump,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runDump(_ context.Context, cmd *cli.Command) error {
	var in []byte
	var err error
	if args := cmd.Args().Slice(); len(args) > 0 {
		in, err = os.ReadFile(args[0])
	} else {
		in, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return err
	}

	opts := []jbind.Option{
		jbind.WithSerializeNulls(!cmd.Bool("omit-nulls")),
		jbind.WithHTMLSafe(cmd.Bool("html-safe")),
		jbind.WithLenient(cmd.Bool("lenient")),
		jbind.WithNonExecutablePrefix(cmd.Bool("prefix")),
		jbind.WithPermitSpecialFloats(cmd.Bool("lenient")),
	}
	if cmd.Bool("pretty") {
		opts = append(opts, jbind.WithPrettyPrint("\n", "  "))
	}
	eng := jbind.New(opts...)

	treeType := jbind.TypeOf(&jbind.Tree{})
	doc, err := eng.FromJSON(in, treeType)
	if err != nil {
		return err
	}
	out, err := eng.ToJSON(doc, treeType)
	if err != nil {
		return err
	}
	if _, err := os.Stdout.Write(out); err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout)
	return err
}
