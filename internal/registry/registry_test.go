package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFromDirectoryBasic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "get.json", `{
		"GET": {
			"summary": "Get the value of a key.",
			"arguments": [
				{"name": "key"}
			]
		}
	}`)
	writeFile(t, dir, "expire.json", `{
		"EXPIRE": {
			"summary": "Set a key's time to live in seconds.",
			"arguments": [
				{"name": "key"},
				{"name": "seconds"},
				{"name": "condition", "token": "[NX | XX | GT | LT]"}
			]
		}
	}`)

	r, err := LoadFromDirectory(dir)
	require.NoError(t, err)
	all := r.All()
	require.Len(t, all, 2)
	// sorted alphabetically: EXPIRE before GET
	require.Equal(t, "EXPIRE", all[0].FullName)
	require.Equal(t, "GET", all[1].FullName)
	require.Equal(t, "<key> <seconds> [NX | XX | GT | LT]", all[0].ArgumentsDesc)
	require.Equal(t, "<key>", all[1].ArgumentsDesc)
}

func TestLoadFromDirectoryMissingReturnsEmpty(t *testing.T) {
	r, err := LoadFromDirectory(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	require.Empty(t, r.All())
}

func TestLoadFromDirectorySkipsUnparsableFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `not json at all`)
	writeFile(t, dir, "ok.json", `{"PING": {"summary": "Ping the server."}}`)
	writeFile(t, dir, "not-json.txt", `{"IGNORED": {}}`)

	r, err := LoadFromDirectory(dir)
	require.NoError(t, err)
	require.Len(t, r.All(), 1)
	require.Equal(t, "PING", r.All()[0].FullName)
}

func TestContainerPrefixesFullName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "add.json", `{
		"ADD": {
			"summary": "Add a member.",
			"container": "SADD",
			"arguments": [{"name": "member"}]
		}
	}`)

	r, err := LoadFromDirectory(dir)
	require.NoError(t, err)
	require.Equal(t, "SADD ADD", r.All()[0].FullName)
}

func TestNestedArgumentsFlattenDepthFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "set.json", `{
		"SET": {
			"summary": "Set a key's value.",
			"arguments": [
				{"name": "key"},
				{"name": "value"},
				{
					"name": "expiration",
					"token": "EX",
					"arguments": [
						{"name": "seconds"}
					]
				}
			]
		}
	}`)

	r, err := LoadFromDirectory(dir)
	require.NoError(t, err)
	require.Equal(t, "<key> <value> EX <seconds>", r.All()[0].ArgumentsDesc)
}

func TestGetSuggestionsPrefixAndCap(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 12; i++ {
		name := "HSET" + string(rune('A'+i))
		writeFile(t, dir, name+".json", `{"`+name+`": {"summary": "s"}}`)
	}
	writeFile(t, dir, "get.json", `{"GET": {"summary": "Get."}}`)

	r, err := LoadFromDirectory(dir)
	require.NoError(t, err)

	suggestions := r.GetSuggestions("hs")
	require.Len(t, suggestions, 10)
	for _, s := range suggestions {
		require.Contains(t, s.FullName, "HSET")
	}
}

func TestGetSuggestionsEmptyPrefix(t *testing.T) {
	r := New()
	require.Empty(t, r.GetSuggestions(""))
}

func TestGetSuggestionsNoMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "get.json", `{"GET": {"summary": "Get."}}`)
	r, err := LoadFromDirectory(dir)
	require.NoError(t, err)
	require.Empty(t, r.GetSuggestions("ZZZ"))
}

func TestDefaultCommandsDirHonorsEnvOverride(t *testing.T) {
	t.Setenv("VALKEYCLI_COMMANDS_DIR", "/tmp/custom-commands")
	require.Equal(t, "/tmp/custom-commands", DefaultCommandsDir())
}
