package commands

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ByteBallet/solara"
)

// RenderCommand renders one markdown file to a wrapped markup unit.
func RenderCommand(args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	unsafe := fs.Bool("unsafe", false, "execute live code fences (trusted input only)")
	sanitize := fs.Bool("sanitize", false, "sanitize rendered HTML")
	style := fs.String("style", "", "inline CSS applied to the wrapping element")
	highlightSpec := fs.String("highlight", "", "comma-separated line numbers to highlight")
	output := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: solara render [flags] <file.md>")
	}
	path := fs.Arg(0)

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	lines, err := parseHighlightSpec(*highlightSpec)
	if err != nil {
		return err
	}

	renderer := solara.NewRenderer()
	markup, err := renderer.Render(solara.Document{
		Text:           string(content),
		UnsafeExecute:  *unsafe,
		HighlightLines: lines,
		Style:          styleSpec(*style),
		Sanitize:       *sanitize,
	})
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}

	log.Printf("[Render] %s key=%s", path, markup.Key)

	if *output == "" {
		fmt.Println(markup.Template)
		return nil
	}
	if err := os.WriteFile(*output, []byte(markup.Template), 0644); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	return nil
}

func styleSpec(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func parseHighlightSpec(spec string) ([]int, error) {
	if spec == "" {
		return nil, nil
	}
	var lines []int
	for _, part := range strings.Split(spec, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid highlight line %q", part)
		}
		lines = append(lines, n)
	}
	return lines, nil
}
