// Package registry loads command-definition JSON files (one file per
// command) into a searchable, alphabetically sorted list, and serves
// prefix-based autocomplete suggestions over it.
//
// Grounded on original_source/src/utils/commands.rs: the CommandFile/
// CommandDefinition/Argument JSON shape, the depth-first
// argument-token flattening, and the prefix-filter-then-cap-at-10
// suggestion logic are all ported from there.
package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// Command is one flattened, display-ready command-definition entry.
type Command struct {
	FullName      string
	Summary       string
	ArgumentsDesc string
}

// commandFile is the on-disk JSON shape: a single top-level key (the
// command name) mapping to its definition. Exactly one entry is read;
// additional keys are ignored.
type commandFile map[string]commandDefinition

type commandDefinition struct {
	Summary   string     `json:"summary"`
	Container string     `json:"container"`
	Arguments []argument `json:"arguments"`
}

type argument struct {
	Name      string     `json:"name"`
	Token     string     `json:"token"`
	Arguments []argument `json:"arguments"`
}

// Registry holds every successfully parsed command, sorted by
// FullName.
type Registry struct {
	commands []Command
}

// New returns an empty registry.
func New() *Registry { return &Registry{} }

// LoadFromDirectory reads every *.json file directly inside dir,
// parsing each as a single command definition. Files that don't exist,
// aren't readable, or don't parse are silently skipped — matching the
// source tool's `if let ... = ... else continue` chain. A missing
// directory yields an empty, non-error registry.
func LoadFromDirectory(dir string) (*Registry, error) {
	r := New()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return r, nil
		}
		return nil, err
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		if cmd, ok := parseCommandJSON(content); ok {
			r.commands = append(r.commands, cmd)
		}
	}

	sort.Slice(r.commands, func(i, j int) bool {
		return r.commands[i].FullName < r.commands[j].FullName
	})

	return r, nil
}

func parseCommandJSON(content []byte) (Command, bool) {
	var file commandFile
	if err := json.Unmarshal(content, &file); err != nil {
		return Command{}, false
	}

	var name string
	var def commandDefinition
	found := false
	for k, v := range file {
		name, def = k, v
		found = true
		break
	}
	if !found {
		return Command{}, false
	}

	fullName := strings.ToUpper(name)
	if def.Container != "" {
		fullName = strings.ToUpper(def.Container) + " " + strings.ToUpper(name)
	}

	return Command{
		FullName:      fullName,
		Summary:       def.Summary,
		ArgumentsDesc: formatArguments(def.Arguments),
	}, true
}

func formatArguments(args []argument) string {
	var tokens []string
	collectArgumentTokens(args, &tokens)
	return strings.Join(tokens, " ")
}

// collectArgumentTokens walks args depth-first, emitting each
// argument's literal token (or "<name>" placeholder when it has none)
// before descending into its nested arguments.
func collectArgumentTokens(args []argument, out *[]string) {
	for _, arg := range args {
		if arg.Token != "" {
			*out = append(*out, arg.Token)
		} else {
			*out = append(*out, "<"+arg.Name+">")
		}
		if len(arg.Arguments) > 0 {
			collectArgumentTokens(arg.Arguments, out)
		}
	}
}

// GetSuggestions returns every command whose FullName starts with the
// uppercased prefix, in registry (alphabetical) order, capped at 10.
// An empty prefix yields no suggestions.
func (r *Registry) GetSuggestions(prefix string) []Command {
	if prefix == "" {
		return nil
	}
	upper := strings.ToUpper(prefix)

	var out []Command
	for _, cmd := range r.commands {
		if strings.HasPrefix(cmd.FullName, upper) {
			out = append(out, cmd)
			if len(out) == 10 {
				break
			}
		}
	}
	return out
}

// All returns every loaded command, in registry order.
func (r *Registry) All() []Command {
	return r.commands
}
