// Command solara renders markdown files and serves live preview pages.
package main

import (
	"fmt"
	"os"

	"github.com/ByteBallet/solara/cmd/solara/commands"
)

const version = "0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "render":
		err = commands.RenderCommand(args)
	case "serve":
		err = commands.ServeCommand(args)
	case "version":
		fmt.Printf("solara version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("solara - markdown with live code fences")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  solara render <file.md>   Render a markdown file to markup")
	fmt.Println("  solara serve [directory]  Start the preview server")
	fmt.Println("  solara version            Show version")
	fmt.Println("  solara help               Show this help")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  solara render README.md -o out.html")
	fmt.Println("  solara render demo.md --unsafe --highlight 3,4,5")
	fmt.Println("  solara serve ./docs --unsafe")
}
