// Command newtypeenum rewrites union prototype declarations into their
// fully wrapped form. Run it via go:generate or directly:
//
//	newtypeenum ./...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/sys/unix"

	"github.com/mgjm/newtype-enum/internal/gen"
)

var Version = "dev"

var (
	bFlag = flag.String("b", "", "comma-separated build tags")
	tFlag = flag.Bool("t", false, "include tests")
	oFlag = flag.String("o", "newtypeenum_gen.go", "output file name")
	cFlag = flag.String("c", "auto", "colorize (auto|always|never)")
)

func init() {
	gen.Version = Version
}

func main() {
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	color := false
	switch *cFlag {
	case "auto":
		color = isatty()
	case "always":
		color = true
	case "never":
		color = false
	default:
		fmt.Fprintln(os.Stderr, "invalid -c value:", *cFlag)
		os.Exit(1)
	}

	outs, err := gen.Main(context.Background(), wd, os.Environ(), *bFlag, *tFlag, *oFlag, flag.Args())
	if err != nil {
		message := err.Error()
		if color {
			message = colorize(message)
		}
		fmt.Fprintln(os.Stderr, message)
		os.Exit(1)
	}

	for out, code := range outs {
		if err := os.WriteFile(out, code, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if relOut, err := filepath.Rel(wd, out); err == nil {
			out = relOut
		}
		fmt.Println("Generated:", out)
	}
}

// isatty reports whether the program is running in a terminal. If it is
// true, we can use ANSI color codes.
func isatty() bool {
	_, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	return err == nil
}

var rePos = regexp.MustCompile(`(?m)^[^\s:]+\.go:\d+:\d+:`)

// colorize adds ANSI color codes to the error positions of the message.
func colorize(message string) string {
	const (
		bold  = "\033[1m"
		reset = "\033[0m"
	)
	return rePos.ReplaceAllStringFunc(message, func(s string) string {
		return bold + s + reset
	})
}
