package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/frostime/siyuan-plugin-cli/cmd/syplug"
	"github.com/frostime/siyuan-plugin-cli/internal/version"
)

// Writes syplug.1 to stdout, or one page per command into the directory
// given as the first argument.
func main() {
	rootCmd := syplug.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "SYPLUG",
		Section: "1",
		Source:  "syplug " + version.Version,
		Manual:  "syplug manual",
	}

	var err error
	if len(os.Args) > 1 {
		err = doc.GenManTree(rootCmd, header, os.Args[1])
	} else {
		err = doc.GenMan(rootCmd, header, os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
