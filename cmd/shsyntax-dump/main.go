// shsyntax-dump parses a shell script and prints its diagnostic notes,
// one per line, in the "file:line:col: severity: message" form that
// diag.ParseNote.String returns. It exists so the golden-file suite
// under testdata/script can pin exact note text end-to-end, the way
// cmd/shfmt's own testscript suite pins formatting output.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lintshell/shsyntax/syntax"
)

var (
	posix    = flag.Bool("posix", false, "disable bash-only constructs")
	comments = flag.Bool("comments", false, "retain comments on the parsed tree")
)

func main() {
	os.Exit(main1())
}

func main1() int {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}

	var mode syntax.ParseMode
	if *posix {
		mode |= syntax.PosixConformant
	}
	if *comments {
		mode |= syntax.IncludeComments
	}

	status := 0
	for _, path := range args {
		if !dumpPath(path, mode) {
			status = 1
		}
	}
	return status
}

func dumpPath(path string, mode syntax.ParseMode) bool {
	name := path
	var r io.Reader
	if path == "-" {
		name = "<standard input>"
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return false
		}
		defer f.Close()
		r = f
	}

	res, err := syntax.ParseShell(name, r, mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return false
	}
	for _, n := range res.Notes {
		fmt.Println(n.String())
	}
	return res.Tree != nil
}
