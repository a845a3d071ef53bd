package main

import (
	"os"

	"github.com/AdguardTeam/golibs/log"
	"github.com/filterkit/blockconv"
	"github.com/filterkit/blockconv/filterlist"
	goFlags "github.com/jessevdk/go-flags"
	"github.com/shirou/gopsutil/v3/process"
)

// Options -- console arguments
type Options struct {
	// Merge - rule-set optimizer mode
	Merge string `short:"m" long:"merge" description:"Rule merging mode." choice:"off" choice:"auto" choice:"all" default:"auto"`

	// Verbose - should we write debug-level log
	Verbose bool `short:"v" long:"verbose" description:"Verbose output (optional)." optional:"yes" optional-value:"true"`

	// LogOutput - path to the log file
	LogOutput string `short:"o" long:"output" description:"Path to the log file. If not set, it writes to stderr." default:""`
}

func main() {
	var options Options
	var parser = goFlags.NewParser(&options, goFlags.Default)

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*goFlags.Error); ok && flagsErr.Type == goFlags.ErrHelp {
			os.Exit(0)
		} else {
			os.Exit(1)
		}
	}

	os.Exit(run(options))
}

func run(options Options) (exitCode int) {
	if options.Verbose {
		log.SetLevel(log.DEBUG)
	}
	if options.LogOutput != "" {
		// nolint: gosec
		file, err := os.OpenFile(options.LogOutput, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("cannot create a log file: %s", err)
		}
		defer file.Close() //nolint
		log.SetOutput(file)
	}

	mode := blockconv.MergeAuto
	switch options.Merge {
	case "off":
		mode = blockconv.MergeOff
	case "all":
		mode = blockconv.MergeAll
	}

	comp := blockconv.NewCompiler()
	scanner := filterlist.NewRuleScanner(os.Stdin)
	count := 0
	for scanner.Scan() {
		f, _ := scanner.Filter()
		comp.AddFilter(f)
		count++
	}
	if err := scanner.Err(); err != nil {
		log.Error("reading filter list: %s", err)

		return 1
	}

	for reason, n := range scanner.Skipped() {
		log.Debug("skipped %d lines: %s", n, reason)
	}
	for reason, n := range comp.Skipped() {
		log.Debug("dropped %d filters: %s", n, reason)
	}

	rules := comp.GenerateRules(mode)
	log.Debug("compiled %d filters into %d rules", count, len(rules))

	if err := blockconv.WriteRules(os.Stdout, rules); err != nil {
		log.Error("writing rules: %s", err)

		return 1
	}

	if options.Verbose {
		logMemUsage()
	}

	return 0
}

// logMemUsage reports the process RSS after compilation.
func logMemUsage() {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Debug("getting process info: %s", err)

		return
	}

	mi, err := p.MemoryInfo()
	if err != nil {
		log.Debug("getting memory info: %s", err)

		return
	}

	log.Debug("memory usage: rss %d kb", mi.RSS/1024)
}
