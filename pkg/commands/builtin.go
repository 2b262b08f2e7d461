package commands

import (
	"embed"
	"io/fs"
)

//go:embed builtin
var builtinCommands embed.FS

// BuiltinFS returns the commands packaged with the binary as an fs.FS
// rooted at the command files.
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinCommands, "builtin")
	if err != nil {
		return nil
	}
	return sub
}
