package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"grimm.is/netdevd/internal/profile"
	"grimm.is/netdevd/internal/setting"
	"grimm.is/netdevd/internal/tui"
)

// RunProfileNormalize rewrites a profile file as canonical HCL. Without
// write it prints a unified diff of what would change.
func RunProfileNormalize(path string, write bool) error {
	return runProfileNormalize(os.Stdout, path, write)
}

func runProfileNormalize(w io.Writer, path string, write bool) error {
	conn, err := profile.LoadFile(path)
	if err != nil {
		return err
	}
	if err := conn.Verify(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	normalized := profile.EncodeHCL(conn)

	target := path
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".hcl" {
		target = strings.TrimSuffix(path, filepath.Ext(path)) + ".hcl"
	}

	var original []byte
	if target == path {
		original, err = os.ReadFile(path)
		if err != nil {
			return err
		}
	} else if data, err := os.ReadFile(target); err == nil {
		original = data
	}

	if bytes.Equal(original, normalized) {
		Printer.Fprintf(w, "%s is already normalized\n", target)
		return nil
	}

	if write {
		if err := os.WriteFile(target, normalized, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", target, err)
		}
		Printer.Fprintf(w, "wrote %s\n", target)
		return nil
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(normalized)),
		FromFile: target,
		ToFile:   target + " (normalized)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return err
	}
	Printer.Fprint(w, text)
	return nil
}

// RunProfileCheck loads and verifies every profile file in dir.
func RunProfileCheck(dir string) error {
	return runProfileCheck(os.Stdout, dir)
}

func runProfileCheck(w io.Writer, dir string) error {
	conns, err := profile.LoadDir(dir)
	if err != nil {
		return err
	}

	failed := 0
	for _, c := range conns {
		if err := c.Verify(); err != nil {
			failed++
			Printer.Fprintf(w, "FAIL %s: %v\n", c.String(), err)
			continue
		}
		Printer.Fprintf(w, "ok   %s\n", c.String())
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d profiles invalid", failed, len(conns))
	}
	Printer.Fprintf(w, "%d profiles valid\n", len(conns))
	return nil
}

// RunProfileNew asks for a profile's fields and writes it to dir as HCL.
func RunProfileNew(dir string) error {
	answers := tui.ProfileAnswers{Autoconnect: true}
	if err := tui.NewProfileForm(&answers).Run(); err != nil {
		return err
	}
	c, err := answers.Connection()
	if err != nil {
		return err
	}
	path, err := writeNewProfile(dir, c)
	if err != nil {
		return err
	}
	Printer.Printf("wrote %s\n", path)
	return nil
}

// writeNewProfile stores c as <dir>/<id>.hcl, refusing to overwrite.
func writeNewProfile(dir string, c *setting.Connection) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create profile directory: %w", err)
	}
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == os.PathSeparator || r == ' ' {
			return '_'
		}
		return r
	}, c.Conn.ID)
	path := filepath.Join(dir, name+".hcl")

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(profile.EncodeHCL(c)); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
