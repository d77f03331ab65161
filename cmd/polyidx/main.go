package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/polyidx/polyidx/internal/server"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("polyidx", version)
		os.Exit(0)
	}
	os.Exit(run(os.Args[1:]))
}

// flags holds the parsed --key[=value] options common to every command.
type flags struct {
	json           bool
	file           string
	in             string
	exclude        string
	top            int
	depth          int
	line           int
	includeMethods bool
	includeTests   bool
	expand         bool
	codeOnly       bool
	withTypes      bool
	exact          bool
}

// parseFlags scans args for --flag / --flag=value pairs, stopping at a
// literal "--" (everything after it is positional, even if it looks like
// a flag — the passthrough a search term like "--foo" needs). Returns the
// parsed flags, the remaining positional arguments, and an error for any
// unrecognized --flag encountered before "--".
func parseFlags(args []string) (flags, []string, error) {
	f := flags{exact: true, depth: 3}
	var positional []string
	terminated := false

	for _, a := range args {
		if terminated {
			positional = append(positional, a)
			continue
		}
		if a == "--" {
			terminated = true
			continue
		}
		if !strings.HasPrefix(a, "--") {
			positional = append(positional, a)
			continue
		}

		key, value, hasValue := strings.Cut(a[2:], "=")
		switch key {
		case "json":
			f.json = true
		case "include-methods":
			f.includeMethods = true
		case "include-tests":
			f.includeTests = true
		case "expand":
			f.expand = true
		case "code-only":
			f.codeOnly = true
		case "with-types":
			f.withTypes = true
		case "exact":
			f.exact = true
		case "file":
			if !hasValue {
				return f, nil, fmt.Errorf("--file requires a value")
			}
			f.file = value
		case "in":
			if !hasValue {
				return f, nil, fmt.Errorf("--in requires a value")
			}
			f.in = value
		case "exclude":
			if !hasValue {
				return f, nil, fmt.Errorf("--exclude requires a value")
			}
			f.exclude = value
		case "top":
			n, err := strconv.Atoi(value)
			if !hasValue || err != nil {
				return f, nil, fmt.Errorf("--top requires a numeric value")
			}
			f.top = n
		case "depth":
			n, err := strconv.Atoi(value)
			if !hasValue || err != nil {
				return f, nil, fmt.Errorf("--depth requires a numeric value")
			}
			f.depth = n
		case "line":
			n, err := strconv.Atoi(value)
			if !hasValue || err != nil {
				return f, nil, fmt.Errorf("--line requires a numeric value")
			}
			f.line = n
		default:
			return f, nil, fmt.Errorf("unknown flag: --%s", key)
		}
	}
	return f, positional, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: polyidx <path> <command> [args] [flags]")
	fmt.Fprintln(os.Stderr, "       polyidx <path> serve")
	fmt.Fprintln(os.Stderr, "       polyidx --version")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  find <name>           usages <name>         context <name>")
	fmt.Fprintln(os.Stderr, "  smart <name>          trace <name>          impact <name>")
	fmt.Fprintln(os.Stderr, "  deadcode              verify <name>         resolve_symbol <name>")
	fmt.Fprintln(os.Stderr, "  graph <file>          imports <file>        exporters <file>")
	fmt.Fprintln(os.Stderr, "  typedef <name>        tests_for <name>      stacktrace [text]")
	fmt.Fprintln(os.Stderr, "  classify <file> <name> --line=N")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Flags: --json --file=<pat> --in=<dir> --exclude=<pat> --top=N --depth=N --line=N")
	fmt.Fprintln(os.Stderr, "       --include-methods --include-tests --expand --code-only --with-types --exact")
}

func run(args []string) int {
	f, positional, err := parseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if len(positional) < 2 {
		usage()
		return 1
	}

	root, command := positional[0], positional[1]
	rest := positional[2:]

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := server.New(ctx, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	if command == "serve" {
		srv.StartWatcher(ctx)
		if err := srv.MCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil {
			log.Printf("server err=%v", err)
			return 1
		}
		return 0
	}

	return runQuery(srv, command, rest, f, os.Stdout)
}

// arg returns rest[i], or "" if absent.
func arg(rest []string, i int) string {
	if i < len(rest) {
		return rest[i]
	}
	return ""
}

func readStdin() string {
	b, _ := io.ReadAll(os.Stdin)
	return string(b)
}
