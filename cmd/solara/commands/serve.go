package commands

import (
	"flag"
	"fmt"

	"github.com/ByteBallet/solara/internal/config"
	"github.com/ByteBallet/solara/internal/server"
)

// ServeCommand starts the preview server over a directory of markdown files.
func ServeCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", "", "listen address (overrides solara.yml)")
	unsafe := fs.Bool("unsafe", false, "execute live code fences (trusted content only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dir := "."
	if fs.NArg() > 0 {
		dir = fs.Arg(0)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *unsafe {
		cfg.UnsafeExecute = true
	}

	srv, err := server.New(dir, cfg)
	if err != nil {
		return err
	}
	return srv.Start()
}
