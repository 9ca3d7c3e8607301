package main

import (
	"flag"
	"os"

	"grimm.is/netdevd/cmd"
	"grimm.is/netdevd/internal/brand"
	"grimm.is/netdevd/internal/i18n"
)

var printer = i18n.NewCLIPrinter()

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "start":
		// Run the daemon in the foreground
		startFlags := flag.NewFlagSet("start", flag.ExitOnError)
		configFile := startFlags.String("config", brand.DefaultConfigPath(), "Configuration file")
		startFlags.StringVar(configFile, "c", brand.DefaultConfigPath(), "Configuration file (short)")
		startFlags.Parse(os.Args[2:])

		if err := cmd.RunDaemon(*configFile); err != nil {
			printer.Fprintf(os.Stderr, "Start failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("check", flag.ExitOnError)
		verbose := checkFlags.Bool("verbose", false, "Verbose output")
		checkFlags.BoolVar(verbose, "v", false, "Verbose output (short)")
		checkFlags.Parse(os.Args[2:])

		configFile := brand.DefaultConfigPath()
		if len(checkFlags.Args()) > 0 {
			configFile = checkFlags.Arg(0)
		}

		if err := cmd.RunCheck(configFile, *verbose); err != nil {
			printer.Fprintf(os.Stderr, "Check failed: %v\n", err)
			os.Exit(1)
		}

	case "show":
		showFlags := flag.NewFlagSet("show", flag.ExitOnError)
		addr := showFlags.String("addr", brand.DefaultListen, "Daemon API address")
		asJSON := showFlags.Bool("json", false, "Print JSON instead of a table")
		showFlags.Parse(os.Args[2:])

		if err := cmd.RunShow(*addr, showFlags.Arg(0), *asJSON); err != nil {
			printer.Fprintf(os.Stderr, "Show failed: %v\n", err)
			os.Exit(1)
		}

	case "watch":
		watchFlags := flag.NewFlagSet("watch", flag.ExitOnError)
		addr := watchFlags.String("addr", brand.DefaultListen, "Daemon API address")
		watchFlags.Parse(os.Args[2:])

		if err := cmd.RunWatch(*addr); err != nil {
			printer.Fprintf(os.Stderr, "Watch failed: %v\n", err)
			os.Exit(1)
		}

	case "profile":
		runProfile(os.Args[2:])

	case "version":
		printer.Printf("%s %s (%s)\n", brand.Name, brand.Version, brand.GitCommit)

	case "help", "-h", "--help":
		printUsage()

	default:
		printer.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runProfile(args []string) {
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "normalize":
		normFlags := flag.NewFlagSet("profile normalize", flag.ExitOnError)
		write := normFlags.Bool("w", false, "Write the normalized profile instead of printing a diff")
		normFlags.Parse(args[1:])

		if normFlags.NArg() != 1 {
			printer.Fprintf(os.Stderr, "usage: %s profile normalize [-w] <file>\n", brand.Name)
			os.Exit(1)
		}
		if err := cmd.RunProfileNormalize(normFlags.Arg(0), *write); err != nil {
			printer.Fprintf(os.Stderr, "Normalize failed: %v\n", err)
			os.Exit(1)
		}

	case "new":
		newFlags := flag.NewFlagSet("profile new", flag.ExitOnError)
		newFlags.Parse(args[1:])

		dir := brand.GetConfigDir() + "/profiles"
		if newFlags.NArg() > 0 {
			dir = newFlags.Arg(0)
		}
		if err := cmd.RunProfileNew(dir); err != nil {
			printer.Fprintf(os.Stderr, "Profile creation failed: %v\n", err)
			os.Exit(1)
		}

	case "check":
		checkFlags := flag.NewFlagSet("profile check", flag.ExitOnError)
		checkFlags.Parse(args[1:])

		dir := brand.GetConfigDir() + "/profiles"
		if checkFlags.NArg() > 0 {
			dir = checkFlags.Arg(0)
		}
		if err := cmd.RunProfileCheck(dir); err != nil {
			printer.Fprintf(os.Stderr, "Profile check failed: %v\n", err)
			os.Exit(1)
		}

	default:
		printer.Fprintf(os.Stderr, "Unknown profile command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printer.Printf(`%s - %s

Usage:
  %s <command> [options]

Commands:
  start [-c config]             Run the daemon in the foreground
  check [-v] [config]           Validate a configuration file
  show [-addr a] [-json] [dev]  List devices, or one device's properties
  watch [-addr a]               Interactive device monitor
  profile normalize [-w] <file> Rewrite a profile file as canonical HCL
  profile check [dir]           Validate every profile file in a directory
  profile new [dir]             Create a profile file interactively
  version                       Print version information
  help                          Show this help
`, brand.Name, brand.Description, brand.Name)
}
