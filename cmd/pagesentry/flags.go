package main

import (
	"flag"
	"fmt"
	"os"
)

type AppFlags struct {
	TargetsFile      string
	GlobalConfigFile string
	Mode             string
	LogLevel         string
}

func ParseFlags() AppFlags {
	targetsFile := flag.String("targets", "", "Path to a file listing pages to monitor: plain text with one URL per line, or YAML/JSON with per-target settings. Overrides monitor_config.targets_file.")
	targetsFileAlias := flag.String("t", "", "Alias for -targets")

	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	modeFlag := flag.String("mode", "", "Mode to run the tool: onetime or automated (overrides config file if set)")
	modeFlagAlias := flag.String("m", "", "Alias for -mode")

	logLevelFlag := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config file if set)")

	flag.Parse()

	flags := AppFlags{}

	if *targetsFile != "" {
		flags.TargetsFile = *targetsFile
	} else if *targetsFileAlias != "" {
		flags.TargetsFile = *targetsFileAlias
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *modeFlag != "" {
		flags.Mode = *modeFlag
	} else if *modeFlagAlias != "" {
		flags.Mode = *modeFlagAlias
	}

	flags.LogLevel = *logLevelFlag

	if flags.Mode == "" {
		fmt.Fprintln(os.Stderr, "[FATAL] --mode argument is required (onetime or automated)")
		os.Exit(1)
	}

	return flags
}
