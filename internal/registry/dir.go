package registry

import (
	"os"
	"runtime"
)

// DefaultCommandsDir resolves the commands directory in three tiers:
// $VALKEYCLI_COMMANDS_DIR if set, an installed-prefix path on
// non-Windows platforms, else a local ./commands. Adapted from
// original_source/src/utils/commands.rs::get_commands_dir, whose
// flatpak/debug-build tiers don't translate to a cross-platform Go CLI.
func DefaultCommandsDir() string {
	if dir := os.Getenv("VALKEYCLI_COMMANDS_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS != "windows" {
		if info, err := os.Stat("/usr/share/valkeycli/commands"); err == nil && info.IsDir() {
			return "/usr/share/valkeycli/commands"
		}
	}
	return "commands"
}
