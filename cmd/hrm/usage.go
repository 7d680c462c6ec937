package main

import (
	"fmt"
	"os"
)

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  hrm run --level <n> [--trace] <file.hrm>")
	fmt.Fprintln(os.Stderr, "  hrm run --level-file <level.yml> [--trace] <file.hrm>")
	fmt.Fprintln(os.Stderr, "  hrm check <file.hrm>")
	fmt.Fprintln(os.Stderr, "  hrm fmt <file.hrm>")
	fmt.Fprintln(os.Stderr, "  hrm levels")
	fmt.Fprintln(os.Stderr, "  hrm suite [--workers <n>] <suite.yml>")
	fmt.Fprintln(os.Stderr, "  hrm fetch <name> <git-url> [--rev <sha>|--tag <tag>|--branch <name>]")
}
