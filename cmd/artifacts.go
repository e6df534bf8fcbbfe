package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// writeArtifact writes an output file atomically: the content goes to a
// temp file in the target directory which is renamed into place only after
// a successful write. A failed run never leaves a partial artifact behind.
func writeArtifact(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create output dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "create temp for %s", path)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "close temp for %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "rename into %s", path)
	}
	return nil
}

// writeArtifactString writes a string artifact atomically.
func writeArtifactString(path, content string) error {
	return writeArtifact(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}
