// Copyright 2025 The go-yaml Project Contributors
// SPDX-License-Identifier: Apache-2.0

// This binary reads YAML from stdin or a file and prints the token or
// event stream produced by the scanner and parser. It exists to give the
// scanner and parser a runnable consumer, the way the go-yaml CLI drives
// the full library.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-yaml-core/yamlcore"
)

func main() {
	tokenMode := flag.Bool("t", false, "Token output")
	eventMode := flag.Bool("e", false, "Event output")
	profuse := flag.Bool("p", false, "Include mark (line/column) info")
	parseComments := flag.Bool("c", false, "Emit standalone comment tokens/events")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-t|-e] [-p] [-c] [file]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if !*tokenMode && !*eventMode {
		flag.Usage()
		os.Exit(1)
	}

	var input io.Reader
	args := flag.Args()
	switch {
	case len(args) == 0 || (len(args) == 1 && args[0] == "-"):
		input = os.Stdin
	case len(args) == 1:
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatal("Failed to open file:", err)
		}
		defer f.Close()
		input = f
	default:
		fmt.Fprintln(os.Stderr, "Error: only one file argument supported")
		os.Exit(1)
	}

	parser := yamlcore.NewParser()
	parser.SetInputReader(input)
	if *parseComments {
		parser.SetParseComments(true)
	}

	if *tokenMode {
		if err := dumpTokens(&parser, *profuse); err != nil {
			log.Fatal("Failed to scan tokens:", err)
		}
		return
	}
	if err := dumpEvents(&parser, *profuse); err != nil {
		log.Fatal("Failed to parse events:", err)
	}
}

func dumpTokens(parser *yamlcore.Parser, profuse bool) error {
	for {
		tok, err := parser.NextToken()
		if err != nil {
			return err
		}
		if tok == nil {
			return nil
		}
		fmt.Println(formatToken(*tok, profuse))
	}
}

func dumpEvents(parser *yamlcore.Parser, profuse bool) error {
	for {
		ev, err := parser.NextEvent()
		if err != nil {
			return err
		}
		if ev == nil {
			return nil
		}
		fmt.Println(formatEvent(*ev, profuse))
	}
}

func formatToken(tok yamlcore.Token, profuse bool) string {
	s := tok.Type.String()
	if len(tok.Value) > 0 {
		s += fmt.Sprintf(" %q", tok.Value)
	}
	if tok.Type == yamlcore.SCALAR_TOKEN {
		s += " " + tok.Style.String()
	}
	if profuse {
		s += " " + tok.StartMark.String()
	}
	return s
}

func formatEvent(ev yamlcore.Event, profuse bool) string {
	s := ev.Type.String()
	if len(ev.Anchor) > 0 {
		s += fmt.Sprintf(" &%s", ev.Anchor)
	}
	if len(ev.Tag) > 0 {
		s += fmt.Sprintf(" <%s>", ev.Tag)
	}
	if len(ev.Value) > 0 {
		s += fmt.Sprintf(" %q", ev.Value)
	}
	if ev.Type == yamlcore.COMMENT_EVENT {
		s += fmt.Sprintf(" (%s) %q", ev.CommentKind, ev.CommentText)
	}
	if profuse {
		s += " " + ev.StartMark.String()
	}
	return s
}
