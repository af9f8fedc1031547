// Command vkregdump parses a registry document and prints a summary of
// the resolved model.
//
// Usage:
//
//	vkregdump [options] <registry.xml>
//
// Examples:
//
//	vkregdump vk.xml                 # Parse and summarize
//	vkregdump -api vulkansc vk.xml   # Accept another API variant
//	vkregdump -unresolved vk.xml     # List external types only
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gogpu/vkreg"
)

var (
	apis       = flag.String("api", "vulkan", "comma-separated accepted API variants")
	unresolved = flag.Bool("unresolved", false, "print only the unresolved-name report")
	output     = flag.String("o", "", "write output to file instead of stdout")
	version    = flag.Bool("version", false, "print version")
)

const vkregVersion = "0.1.0-dev"

func main() {
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("vkregdump version %s\n", vkregVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input file specified")
		usage()
		os.Exit(1)
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	opts := vkreg.DefaultOptions()
	opts.APIs = strings.Split(*apis, ",")
	model, err := vkreg.ParseWithOptions(string(source), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if *unresolved {
		for _, name := range model.Unresolved {
			fmt.Fprintln(out, name)
		}
		return
	}

	db := model.DB
	fmt.Fprintf(out, "types:      %d\n", len(db.Types)-1)
	fmt.Fprintf(out, "constants:  %d\n", len(db.Constants)-1)
	fmt.Fprintf(out, "handles:    %d\n", len(db.Handles)-1)
	fmt.Fprintf(out, "structs:    %d\n", len(db.Structs)-1)
	fmt.Fprintf(out, "unions:     %d\n", len(db.Unions)-1)
	fmt.Fprintf(out, "enums:      %d\n", len(db.Enums)-1)
	fmt.Fprintf(out, "bitfields:  %d\n", len(db.Bitfields)-1)
	fmt.Fprintf(out, "functions:  %d\n", len(db.Functions)-1)
	fmt.Fprintf(out, "extensions: %d\n", len(model.Extensions))
	if len(model.Unresolved) > 0 {
		fmt.Fprintf(out, "external:   %s\n", strings.Join(model.Unresolved, ", "))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: vkregdump [options] <registry.xml>")
	flag.PrintDefaults()
}
