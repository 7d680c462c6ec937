package main

import (
	"fmt"
	"os"
)

const cliToolVersion = "hrm-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runReplay(args[1:])
	case "check":
		return runCheck(args[1:])
	case "fmt":
		return runFormat(args[1:])
	case "levels":
		return runLevels(args[1:])
	case "suite":
		return runSuite(args[1:])
	case "fetch":
		return runFetch(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "hrm: unknown command %q\n", args[0])
		printUsage()
		return 1
	}
}
