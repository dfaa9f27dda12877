package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/reusee/dscope"
	"github.com/reusee/whitespace/configs"
	"github.com/reusee/whitespace/debugs"
	"github.com/reusee/whitespace/logs"
	"github.com/reusee/whitespace/storages"
	"github.com/reusee/whitespace/wsprog"
	"github.com/reusee/whitespace/wsscript"
	"github.com/reusee/whitespace/wsvm"
	"gopkg.in/yaml.v3"
)

// Tool implements the commands of ws.
type Tool struct {
	Logger      dscope.Inject[logs.Logger]
	Loader      dscope.Inject[configs.Loader]
	NewVM       dscope.Inject[wsvm.NewVM]
	OpenCache   dscope.Inject[storages.OpenCache]
	BuildScript dscope.Inject[wsscript.BuildScript]
	TapVM       dscope.Inject[debugs.TapVM]

	Stdin  io.Reader
	Stdout io.Writer
	// open a tap session after a failed run
	Tap bool
	// stdin is a terminal
	Interactive bool

	cache       *storages.ProgramCache
	cacheOpened bool
}

func (t *Tool) Close() error {
	if t.cache == nil {
		return nil
	}
	cache := t.cache
	t.cache = nil
	return cache.Close()
}

func (t *Tool) programCache(ctx context.Context) (*storages.ProgramCache, error) {
	if t.cacheOpened {
		return t.cache, nil
	}
	cache, err := t.OpenCache()(ctx)
	if err != nil {
		return nil, err
	}
	t.cache = cache
	t.cacheOpened = true
	return cache, nil
}

func (t *Tool) decode(ctx context.Context, path string) (*wsprog.Program, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cache, err := t.programCache(ctx)
	if err != nil {
		return nil, err
	}
	// nil cache decodes directly
	return cache.Decode(ctx, wsprog.NewSource(path, content))
}

// Run decodes and evaluates a whitespace file.
func (t *Tool) Run(ctx context.Context, path string) error {
	program, err := t.decode(ctx, path)
	if err != nil {
		return err
	}
	return t.execute(ctx, program)
}

// List prints the listing of a whitespace file.
func (t *Tool) List(ctx context.Context, path string) error {
	program, err := t.decode(ctx, path)
	if err != nil {
		return err
	}
	_, err = io.WriteString(t.Stdout, program.Listing())
	return err
}

// YAML prints a whitespace file as a YAML listing.
func (t *Tool) YAML(ctx context.Context, path string) error {
	program, err := t.decode(ctx, path)
	if err != nil {
		return err
	}
	encoder := yaml.NewEncoder(t.Stdout)
	encoder.SetIndent(2)
	if err := encoder.Encode(program); err != nil {
		return err
	}
	return encoder.Close()
}

// Assemble prints the whitespace source of a YAML listing.
func (t *Tool) Assemble(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var program wsprog.Program
	if err := yaml.Unmarshal(content, &program); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	_, err = io.WriteString(t.Stdout, program.Text())
	return err
}

// Script prints the whitespace source built by a starlark script.
func (t *Tool) Script(ctx context.Context, path string) error {
	program, err := t.BuildScript()(path, nil)
	if err != nil {
		return err
	}
	_, err = io.WriteString(t.Stdout, program.Text())
	return err
}

// ScriptRun builds a program from a starlark script and evaluates it.
func (t *Tool) ScriptRun(ctx context.Context, path string) error {
	program, err := t.BuildScript()(path, nil)
	if err != nil {
		return err
	}
	return t.execute(ctx, program)
}

// Config prints the value of a config key in every file that sets it, the effective one first.
func (t *Tool) Config(ctx context.Context, key string) error {
	loader := t.Loader()
	var first any
	if err := loader.AssignFirst(key, &first); err != nil {
		if errors.Is(err, configs.ErrValueNotFound) {
			return fmt.Errorf("config %s: not set", key)
		}
		return fmt.Errorf("config %s: %w", key, err)
	}
	for value := range configs.All[any](loader, key) {
		if _, err := fmt.Fprintln(t.Stdout, value); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tool) execute(ctx context.Context, program *wsprog.Program) error {
	logger := t.Logger()
	output := bufio.NewWriter(t.Stdout)
	input := &flushingReader{
		LineReader: wsvm.NewLineReader(t.Stdin),
		output:     output,
	}
	vm := t.NewVM()(program, input, output)

	outcome, err := vm.Run(ctx)
	if flushErr := output.Flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	state := vm.State()
	logger.DebugContext(ctx, "run done",
		"outcome", outcome,
		"steps", state.Steps,
		"stack", len(state.Stack),
	)

	if err != nil && t.Tap {
		if t.Interactive {
			t.TapVM()(ctx, vm, err)
		} else {
			logger.WarnContext(ctx, "tap skipped, stdin is not a terminal")
		}
	}
	return err
}

// flushingReader flushes pending output before blocking on input, so prompts show up.
type flushingReader struct {
	wsvm.LineReader
	output *bufio.Writer
}

func (f *flushingReader) ReadLine() (string, error) {
	if err := f.output.Flush(); err != nil {
		return "", &wsvm.RuntimeError{
			Err:    wsvm.ErrOutput,
			Detail: err,
		}
	}
	return f.LineReader.ReadLine()
}
