// Command mlsdraft builds canonical draft listings from extraction
// batches. Batches are JSON files matching draft.Input, or CSV/TSV
// spreadsheets with one label/value row per extraction; output is the
// finished draft plus the match audit list.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hatch-crm/mlsdraft/internal/config"
	"github.com/hatch-crm/mlsdraft/internal/draft"
	"github.com/hatch-crm/mlsdraft/internal/ingest"
	"github.com/hatch-crm/mlsdraft/internal/match"
	"github.com/hatch-crm/mlsdraft/internal/mcp"
	"github.com/hatch-crm/mlsdraft/internal/schema"
	"github.com/hatch-crm/mlsdraft/internal/store"
	"github.com/mark3labs/mcp-go/server"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch os.Args[1] {
	case "build":
		err = runBuild(os.Args[2:])
	case "match":
		err = runMatch(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "show":
		err = runShow(os.Args[2:])
	case "mcp":
		err = runMCP(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("mlsdraft %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mlsdraft - canonicalize MLS listing extractions

Usage:
  mlsdraft build <batch.{json,csv,tsv}> [--save] [--compact] [--config <path>] [--db <path>]
  mlsdraft match <label> [value] [--section <name>] [--bold] [--uppercase]
  mlsdraft list [--limit <n>] [--db <path>]
  mlsdraft show <id> [--db <path>]
  mlsdraft mcp [--config <path>] [--db <path>]
  mlsdraft version

JSON batches carry the full input: {"extractions": [{"label": ...,
"value": ..., "section": ..., "bold": ..., "uppercase": ...}],
"remarks_list": [...], "media": {"urls": [...]}, "source": {...}}.
CSV/TSV batches need label and value columns; section, bold, and
uppercase columns are optional.`)
}

// cliFlags holds flags shared across subcommands.
type cliFlags struct {
	configPath string
	dbPath     string
	save       bool
	compact    bool
	limit      int
	section    string
	bold       bool
	uppercase  bool
	args       []string
}

func parseFlags(args []string) (cliFlags, error) {
	f := cliFlags{limit: 20}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--save":
			f.save = true
		case arg == "--compact":
			f.compact = true
		case arg == "--bold":
			f.bold = true
		case arg == "--uppercase":
			f.uppercase = true
		case arg == "--config" || arg == "--db" || arg == "--limit" || arg == "--section":
			if i+1 >= len(args) {
				return f, fmt.Errorf("%s requires a value", arg)
			}
			i++
			switch arg {
			case "--config":
				f.configPath = args[i]
			case "--db":
				f.dbPath = args[i]
			case "--section":
				f.section = args[i]
			case "--limit":
				n, err := strconv.Atoi(args[i])
				if err != nil || n <= 0 {
					return f, fmt.Errorf("invalid --limit: %s", args[i])
				}
				f.limit = n
			}
		case strings.HasPrefix(arg, "-"):
			return f, fmt.Errorf("unknown flag: %s", arg)
		default:
			f.args = append(f.args, arg)
		}
	}
	return f, nil
}

func resolve(f cliFlags) (config.ResolvedConfig, match.Options, error) {
	resolved, err := config.ResolveConfig(config.ResolveOptions{
		ConfigPath: f.configPath,
		CLIDBPath:  f.dbPath,
	})
	if err != nil {
		return resolved, match.Options{}, err
	}
	opts, err := resolved.MatcherOptions()
	return resolved, opts, err
}

func runBuild(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(f.args) != 1 {
		return fmt.Errorf("usage: mlsdraft build <batch.{json,csv,tsv}> [--save] [--compact]")
	}

	in, err := ingest.LoadBatch(f.args[0])
	if err != nil {
		return err
	}

	resolved, opts, err := resolve(f)
	if err != nil {
		return err
	}

	res := draft.NewBuilder(opts).Build(in)

	if f.save {
		st, err := store.Open(store.Config{DBPath: resolved.DBPath.Value})
		if err != nil {
			return err
		}
		defer st.Close()
		id, err := st.SaveDraft(context.Background(), res)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved draft %d\n", id)
	}

	return printJSON(res, f.compact)
}

func runMatch(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(f.args) < 1 || len(f.args) > 2 {
		return fmt.Errorf("usage: mlsdraft match <label> [value] [--section <name>]")
	}

	_, opts, err := resolve(f)
	if err != nil {
		return err
	}

	ex := schema.ExtractedLabelValue{
		Label:     f.args[0],
		Section:   f.section,
		Bold:      f.bold,
		Uppercase: f.uppercase,
	}
	if len(f.args) == 2 {
		ex.Value = f.args[1]
	}

	res := match.NewMatcher(opts).Match(ex)
	if res == nil {
		fmt.Println("no match")
		return nil
	}
	return printJSON(res, f.compact)
}

func runList(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	resolved, _, err := resolve(f)
	if err != nil {
		return err
	}

	st, err := store.Open(store.Config{DBPath: resolved.DBPath.Value})
	if err != nil {
		return err
	}
	defer st.Close()

	drafts, err := st.ListDrafts(context.Background(), store.ListOpts{Limit: f.limit})
	if err != nil {
		return err
	}
	if len(drafts) == 0 {
		fmt.Println("no stored drafts")
		return nil
	}
	for _, d := range drafts {
		mls := d.MLSNumber
		if mls == "" {
			mls = "-"
		}
		fmt.Printf("%4d  %-14s  missing=%d warnings=%d  %s\n",
			d.ID, mls, d.MissingCount, d.WarningCount, d.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runShow(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(f.args) != 1 {
		return fmt.Errorf("usage: mlsdraft show <id>")
	}
	id, err := strconv.ParseInt(f.args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid draft id: %s", f.args[0])
	}

	resolved, _, err := resolve(f)
	if err != nil {
		return err
	}
	st, err := store.Open(store.Config{DBPath: resolved.DBPath.Value})
	if err != nil {
		return err
	}
	defer st.Close()

	sd, err := st.GetDraft(context.Background(), id)
	if err != nil {
		return err
	}
	return printJSON(sd, f.compact)
}

func runMCP(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	resolved, opts, err := resolve(f)
	if err != nil {
		return err
	}

	st, err := store.Open(store.Config{DBPath: resolved.DBPath.Value})
	if err != nil {
		return err
	}
	defer st.Close()

	s := mcp.NewServer(mcp.ServerConfig{
		Builder: draft.NewBuilder(opts),
		Matcher: match.NewMatcher(opts),
		Store:   st,
		Version: version,
	})
	return server.ServeStdio(s)
}

func printJSON(v any, compact bool) error {
	enc := json.NewEncoder(os.Stdout)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
