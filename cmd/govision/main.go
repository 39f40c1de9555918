package main

import (
	"fmt"
	"log"
	"os"
	"sort"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "--version", "-v", "version":
		fmt.Printf("govision %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		usage()
		return
	}

	// Logging goes to stderr; stdout carries operation results.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if os.Getenv("GOVISION_LOG_LEVEL") == "debug" {
		log.Printf("govision %s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	op, ok := operations[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown operation %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err := op.Run(os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Println("govision - classical computer vision toolkit")
	fmt.Println()
	fmt.Println("Usage: govision <operation> [flags]")
	fmt.Println()
	fmt.Println("Operations:")
	names := make([]string, 0, len(operations))
	for name := range operations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %s\n", name, operations[name].Description)
	}
	fmt.Println()
	fmt.Println("Run 'govision <operation> -h' for the flags of one operation.")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  GOVISION_LOG_LEVEL=debug    Enable debug logging")
}
