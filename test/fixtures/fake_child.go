// Package fixtures provides test helpers for integration tests.
package fixtures

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FakeChild is a shell script standing in for the Threema Desktop binary.
// Run n exits with Codes[n], or 0 once the script is exhausted. Every run
// records its arguments and whether the profile directory existed.
type FakeChild struct {
	Dir        string
	ProfileDir string
	Codes      []int
}

// NewFakeChild creates a fake child generator writing into dir.
func NewFakeChild(dir, profileDir string, codes ...int) *FakeChild {
	return &FakeChild{Dir: dir, ProfileDir: profileDir, Codes: codes}
}

// Path is the location of the generated binary.
func (f *FakeChild) Path() string {
	return filepath.Join(f.Dir, "ThreemaDesktop")
}

// Create writes the executable script.
func (f *FakeChild) Create() error {
	var cases strings.Builder
	for i, code := range f.Codes {
		fmt.Fprintf(&cases, "  %d) exit %d ;;\n", i+1, code)
	}

	script := fmt.Sprintf(`#!/bin/sh
printf '%%s\n' "$*" >> %[1]q
if [ -d %[2]q ]; then echo present; else echo absent; fi >> %[3]q
n=$(($(wc -l < %[1]q)))
case "$n" in
%[4]s  *) exit 0 ;;
esac
`, f.argsLog(), f.ProfileDir, f.profileLog(), cases.String())

	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return err
	}
	return os.WriteFile(f.Path(), []byte(script), 0755)
}

// Invocations returns the argument line of every run.
func (f *FakeChild) Invocations() ([]string, error) {
	return readLines(f.argsLog())
}

// ProfileStates returns "present" or "absent" per run.
func (f *FakeChild) ProfileStates() ([]string, error) {
	return readLines(f.profileLog())
}

func (f *FakeChild) argsLog() string    { return filepath.Join(f.Dir, "args.log") }
func (f *FakeChild) profileLog() string { return filepath.Join(f.Dir, "profile.log") }

func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
