// Command wave searches the Wave API from the terminal.
//
//	wave search <query...>
//	wave thumbnail [-o file] <id>
//
// Global flags: -base overrides the API root, -timeout bounds each request
// and -v enables debug logging on stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"Wave-Go/pkg/wave"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wave", flag.ContinueOnError)
	fs.SetOutput(stderr)
	base := fs.String("base", wave.DefaultBaseURL, "Wave API root URL")
	timeout := fs.Duration("timeout", 10*time.Second, "request timeout")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: wave [flags] search <query...>")
		fmt.Fprintln(stderr, "       wave [flags] thumbnail [-o file] <id>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := log.New()
	logger.SetOutput(stderr)
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}
	client := &wave.Client{
		BaseURL: *base,
		HTTP:    &http.Client{Timeout: *timeout},
		Logger:  logger,
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return 2
	}
	var err error
	switch rest[0] {
	case "search":
		err = search(ctx, client, strings.Join(rest[1:], " "), stdout)
	case "thumbnail":
		err = thumbnail(ctx, client, rest[1:], stdout, stderr)
	default:
		fs.Usage()
		return 2
	}
	if err != nil {
		fmt.Fprintln(stderr, "wave:", err)
		var me *wave.MissingIDError
		if errors.As(err, &me) {
			return 2
		}
		return 1
	}
	return 0
}

// search prints one line per item: id, display text and duration.
func search(ctx context.Context, c *wave.Client, query string, w io.Writer) error {
	items, err := c.Search(ctx, query)
	if err != nil {
		return err
	}
	for _, item := range items {
		id, _ := item.IDValue()
		line := id + "\t" + item.String()
		if d, ok := item.DurationValue(); ok {
			line += fmt.Sprintf(" (%d:%02d)", d/60, d%60)
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// thumbnail writes the image for an id to -o, or stdout when -o is "-".
func thumbnail(ctx context.Context, c *wave.Client, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("thumbnail", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "-", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	item := wave.MusicItem{}
	if fs.NArg() > 0 {
		item.ID = wave.String(fs.Arg(0))
	}
	img, err := c.Thumbnail(ctx, item)
	if err != nil {
		return err
	}
	defer img.Close()

	w := stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if _, err := io.Copy(w, img); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}
	return nil
}
