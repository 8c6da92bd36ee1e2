package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
)

const versionString = "aasm 1.0.0"

// VerboseMode controls whether the pipeline echoes diagnostics and the
// output path/size to stderr as it runs.
var VerboseMode bool

func main() {
	defaultOutput := env.StrOr("AASM_OUTPUT", "a.out")
	defaultVerbose := env.Bool("AASM_VERBOSE")

	outputFlag := flag.String("o", defaultOutput, "output executable path")
	verboseFlag := flag.Bool("v", defaultVerbose, "verbose diagnostic echo")
	versionFlag := flag.Bool("version", false, "print version information and exit")
	flag.Usage = printUsage
	flag.Parse()

	if *versionFlag {
		fmt.Println(versionString)
		return
	}

	VerboseMode = *verboseFlag

	args := flag.Args()
	if len(args) != 1 {
		printUsage()
		os.Exit(2)
	}

	if err := Assemble(args[0], *outputFlag); err != nil {
		fmt.Fprintln(os.Stderr, "aasm:", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `aasm - a minimal AArch64 assembler

USAGE:
    aasm [-o out] [-v] input.s

FLAGS:
    -o <file>    output executable path (default %q, or $AASM_OUTPUT)
    -v           verbose diagnostic echo (default $AASM_VERBOSE)
    --version    print version information and exit
`, env.StrOr("AASM_OUTPUT", "a.out"))
}
