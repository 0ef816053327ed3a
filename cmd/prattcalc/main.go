package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"github.com/karupanerura/prattcalc/internal/codegen"
	"github.com/karupanerura/prattcalc/internal/expression"
	"github.com/karupanerura/prattcalc/internal/server"
	"github.com/karupanerura/prattcalc/internal/suite"
	"github.com/karupanerura/prattcalc/internal/types"
	"github.com/mattn/go-isatty"
	"github.com/samber/lo"
)

type Option struct {
	Tokens   bool   `long:"tokens" description:"[OPTIONAL] Print tokens before evaluation"`
	Tree     bool   `long:"tree" description:"[OPTIONAL] Print the parse tree before evaluation"`
	SExpr    bool   `long:"sexpr" description:"[OPTIONAL] Print the parse tree as an S-expression"`
	JSON     bool   `long:"json" description:"[OPTIONAL] Print tokens, tree and result as JSON"`
	EmitLLVM bool   `long:"emit-llvm" description:"[OPTIONAL] Print LLVM IR instead of evaluating"`
	File     string `short:"f" long:"file" description:"[OPTIONAL] Suite file (YAML or JSON) to run"`
	Listen   string `short:"l" long:"listen" description:"[OPTIONAL] Listen host and port to serve evaluation API"`
	Jobs     int    `short:"j" long:"jobs" description:"[OPTIONAL] Number of suite cases evaluated concurrently" default:"4"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Usage = "[OPTIONS] EXPRESSION..."
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		} else {
			parser.WriteHelp(stdout)
			return 1
		}
	}

	modes := lo.Filter([]bool{opt.File != "", opt.Listen != "", len(rest) != 0}, func(b bool, _ int) bool {
		return b
	})
	if len(modes) != 1 {
		parser.WriteHelp(stdout)
		return 1
	}

	// server mode
	if opt.Listen != "" {
		if err = serve(opt.Listen); err != nil {
			log.Printf("failed to serve: %v", err)
			return 1
		}
		return 0
	}

	// suite mode
	if opt.File != "" {
		return runSuite(opt.File, opt.Jobs, stdout)
	}

	return evaluate(strings.Join(rest, " "), &opt, stdout, stderr)
}

func evaluate(source string, opt *Option, stdout, stderr io.Writer) int {
	expr, err := expression.ParseExpr(source)
	if err != nil {
		return dumpError(stderr, err)
	}

	if opt.Tokens {
		lines := lo.Map(expr.Tokens, func(t expression.Token, _ int) string {
			return t.String()
		})
		if _, err = fmt.Fprintln(stdout, strings.Join(lines, "\n")); err != nil {
			log.Printf("failed to dump tokens: %v", err)
		}
	}
	if opt.Tree {
		if err = expression.PrettyPrint(stdout, expr.Root); err != nil {
			log.Printf("failed to dump tree: %v", err)
		}
	}
	if opt.SExpr {
		if _, err = fmt.Fprintln(stdout, expression.Render(expr.Root)); err != nil {
			log.Printf("failed to dump tree: %v", err)
		}
	}

	if opt.EmitLLVM {
		mod, err := codegen.Compile(expr.Root)
		if err != nil {
			return dumpError(stderr, err)
		}
		if _, err = io.WriteString(stdout, mod.String()); err != nil {
			log.Printf("failed to dump LLVM IR: %v", err)
		}
		return 0
	}

	v, err := expr.Evaluate()
	if err != nil {
		return dumpError(stderr, err)
	}

	if opt.JSON {
		ret := &expression.Result{
			Tokens: expr.Tokens,
			Tree:   expression.Render(expr.Root),
			Value:  v,
		}
		if err = dumpJSON(stdout, ret); err != nil {
			log.Printf("failed to dump result: %v", err)
		}
		return 0
	}

	if _, err = fmt.Fprintln(stdout, v); err != nil {
		log.Printf("failed to dump result: %v", err)
	}
	return 0
}

func runSuite(filePath string, jobs int, stdout io.Writer) int {
	s, err := suite.Load(filePath)
	if err != nil {
		log.Printf("failed to load suite: %v", err)
		return 1
	}

	results, err := s.Run(context.Background(), jobs)
	if err != nil {
		log.Printf("failed to run suite: %v", err)
		return 1
	}
	if err = dumpJSON(stdout, results); err != nil {
		log.Printf("failed to dump suite results: %v", err)
	}

	passed, failed := suite.Summarize(results)
	log.Printf("%d passed, %d failed", passed, failed)
	if failed != 0 {
		return 1
	}
	return 0
}

func dumpError(w io.Writer, err error) int {
	var exception types.Exception
	if errors.As(err, &exception) {
		if _, err = fmt.Fprintln(w, exception.Error()); err != nil {
			log.Printf("failed to dump error: %v", err)
		}
		if err = dumpJSON(w, exception.Exception()); err != nil {
			log.Printf("failed to dump error as JSON: %v", err)
		}
	} else {
		log.Printf("failed to evaluate expression: %v", err)
	}
	return 1
}

func serve(listen string) error {
	srv := http.Server{
		Handler: server.NewHTTPHandler(),
		Addr:    listen,
	}

	log.Printf("Listen HTTP on %s", listen)
	if err := srv.ListenAndServe(); errors.Is(err, http.ErrServerClosed) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func dumpJSON(w io.Writer, v any) error {
	opts := []json.EncodeOptionFunc{json.DisableHTMLEscape()}
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		if isatty.IsTerminal(f.Fd()) {
			opts = append(opts, json.Colorize(json.DefaultColorScheme))
		}
	}

	b, err := json.MarshalIndentWithOption(v, "", "\t", opts...)
	if err != nil {
		return fmt.Errorf("json.MarshalIndentWithOption: %w", err)
	}

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
