package main

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
)

// runScript evaluates r line by line, as if typed into the REPL. It stops
// at the first failing line.
func runScript(env *env, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		if err := env.eval(scanner.Text()); err == errQuit {
			return err
		} else if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
	}
	return errors.WithStack(scanner.Err())
}

func runScriptFile(env *env, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	if err := runScript(env, f); err != nil && err != errQuit {
		return errors.Wrap(err, path)
	} else if err == errQuit {
		return err
	}
	return nil
}
