// Copyright 2016, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Unpack decompresses files that carry a compressed sector.
//
// Each argument is a file name or a glob pattern, where "**" matches any
// number of directories. Every flag may also be given through an environment
// variable with the PMOC_ prefix, such as PMOC_WRAP=xz.
//
// Example usage:
//	$ go build -o unpack
//	$ ./unpack -o out -digest saves/chapter*
//	OK   saves/chapter0 -> out/chapter0_dec (12.3KiB -> 23.6KiB)
//	     crc32:5b0ebc6d xxh64:8c1e0d5f3a3b22a1
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/coreos/pkg/capnslog"
	"github.com/coreos/pkg/flagutil"
)

const repo = "github.com/pmoc/pmoc"

var plog = capnslog.NewPackageLogger(repo, "unpack")

func main() {
	var cfg config
	flag.StringVar(&cfg.OutDir, "o", "", "Directory to write outputs to (default is next to each input)")
	flag.StringVar(&cfg.Suffix, "suffix", "_dec", "Suffix appended to each output name")
	flag.StringVar(&cfg.Wrap, "wrap", wrapNone, "Outer format of the outputs: none, gzip, or xz")
	flag.BoolVar(&cfg.Info, "info", false, "Describe each compressed sector without decompressing")
	flag.BoolVar(&cfg.Digest, "digest", false, "Print checksums of each decompressed file")
	flag.BoolVar(&cfg.Force, "force", false, "Overwrite existing outputs")
	showProgress := flag.Bool("progress", true, "Show a progress bar when stderr is a terminal")
	verbose := flag.Bool("v", false, "Enable debug logging")
	logLevels := flag.String("log", "", "Per-package log levels, such as unpack=DEBUG")
	flag.Parse()

	if err := flagutil.SetFlagsFromEnv(flag.CommandLine, "PMOC"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := setupLogging(*verbose, *logLevels); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := checkWrap(cfg.Wrap); err != nil {
		plog.Fatal(err)
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	files, err := expandArgs(flag.Args())
	if err != nil {
		plog.Fatal(err)
	}
	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
			plog.Fatal(err)
		}
	}

	var bar *progress
	if *showProgress && len(files) > 1 && isTerminal(os.Stderr) {
		bar = newProgress(os.Stderr, len(files))
	}
	p := newPrinter(os.Stdout, isTerminal(os.Stdout))
	if failed := run(files, cfg, p, bar); failed > 0 {
		plog.Errorf("%d of %d files failed", failed, len(files))
		os.Exit(1)
	}
}

func setupLogging(verbose bool, levels string) error {
	capnslog.SetFormatter(capnslog.NewStringFormatter(os.Stderr))
	var level capnslog.LogLevel = capnslog.INFO
	if verbose {
		level = capnslog.DEBUG
	}
	rl := capnslog.MustRepoLogger(repo)
	rl.SetLogLevel(map[string]capnslog.LogLevel{"*": level})
	if levels == "" {
		return nil
	}
	m, err := rl.ParseLogLevelConfig(levels)
	if err != nil {
		return err
	}
	rl.SetLogLevel(m)
	return nil
}

// expandArgs resolves glob patterns into a list of regular files. Arguments
// without any match are kept as-is so that opening them reports the error.
func expandArgs(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	for _, arg := range args {
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %v", arg, err)
		}
		if len(matches) == 0 {
			matches = []string{arg}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	return files, nil
}

// run processes every file and returns the number of failures.
func run(files []string, cfg config, p *printer, bar *progress) (failed int) {
	defer bar.Finish()
	for _, f := range files {
		rep, err := unpackFile(f, cfg)
		if err != nil {
			plog.Debugf("%s: %v", f, err)
			failed++
		}
		p.print(rep, err)
		bar.Increment()
	}
	return failed
}
