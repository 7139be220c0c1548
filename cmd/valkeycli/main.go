/*
file: cmd/valkeycli/main.go

A thin REPL over internal/session: parse a valkey:// URL, open a
session, read command lines from stdin, tokenize and execute them, and
print the flattened reply. Lines containing ";" run as one pipelined
batch instead of a single command, exercising ExecPipelined.
*/
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/akashmaji946/valkeycli/internal/registry"
	valkeysession "github.com/akashmaji946/valkeycli/internal/session"
	"github.com/akashmaji946/valkeycli/internal/valkeyurl"
	"github.com/akashmaji946/valkeycli/internal/vklog"
)

func main() {
	commandsDir := flag.String("commands-dir", registry.DefaultCommandsDir(), "directory of command-definition JSON files")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: valkeycli <valkey://...> ")
		os.Exit(1)
	}

	url, err := valkeyurl.Parse(nil, args[0])
	if err != nil {
		vklog.Default.Error("invalid connection url: %v", err)
		os.Exit(1)
	}

	reg, err := registry.LoadFromDirectory(*commandsDir)
	if err != nil {
		vklog.Default.Warn("could not load command definitions from %s: %v", *commandsDir, err)
		reg = registry.New()
	}

	events := valkeysession.NewChannelObserver(8)
	go logEvents(events)

	session, err := valkeysession.Open(url, events)
	if err != nil {
		vklog.Default.Error("connection failed: %v", err)
		os.Exit(1)
	}
	defer session.Close()

	fmt.Printf("connected to %s (%s)\n", url.Address(), session.ServerType())
	runREPL(session, reg, os.Stdin, os.Stdout)
}

func logEvents(o *valkeysession.ChannelObserver) {
	for ev := range o.Events {
		vklog.Default.Info("%s", ev.Message)
	}
}

// runREPL drives the read-tokenize-exec-print loop. A leading ":suggest"
// directive is handled locally against reg instead of being sent to the
// server, surfacing the registry's prefix-autocomplete (spec.md §1's
// "a suggestion list keyed by prefix") as a REPL-level command.
func runREPL(session *valkeysession.Session, reg *registry.Registry, in *os.File, out *os.File) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		if prefix, ok := strings.CutPrefix(line, ":suggest"); ok {
			printSuggestions(out, reg, strings.TrimSpace(prefix))
			continue
		}

		var results []string
		var err error
		if strings.Contains(line, ";") {
			results, err = session.ExecPipelined(splitPipeline(line))
		} else {
			results, err = session.Exec(line)
		}

		if err != nil {
			fmt.Fprintf(out, "(error) %v\n", err)
			continue
		}
		for _, r := range results {
			fmt.Fprintln(out, r)
		}
	}
}

func printSuggestions(out *os.File, reg *registry.Registry, prefix string) {
	suggestions := reg.GetSuggestions(prefix)
	if len(suggestions) == 0 {
		fmt.Fprintln(out, "(no matches)")
		return
	}
	for _, cmd := range suggestions {
		if cmd.ArgumentsDesc != "" {
			fmt.Fprintf(out, "%s %s - %s\n", cmd.FullName, cmd.ArgumentsDesc, cmd.Summary)
		} else {
			fmt.Fprintf(out, "%s - %s\n", cmd.FullName, cmd.Summary)
		}
	}
}

func splitPipeline(line string) []string {
	parts := strings.Split(line, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
