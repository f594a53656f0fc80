package gcm

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
)

const (
	scratchPrefix = "gcm_cache_"
	resultPrefix  = "partition_"

	suffixLength      = 4
	maxCreateAttempts = 8
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomSuffix is a hook so tests can force name collisions.
var randomSuffix = func(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = suffixAlphabet[rand.Intn(len(suffixAlphabet))]
	}
	return string(b)
}

// Workspace is the isolated scratch directory owning one run's staged input
// and intermediate files. External steps run with it as their working
// directory; the process working directory is never touched.
type Workspace struct {
	Root        string
	StagedInput string
}

// EnterWorkspace creates a uniquely named scratch directory under baseDir
// and stages a copy of the input file into it, preserving the base name.
// A suffix collision is retried with a fresh suffix.
func EnterWorkspace(baseDir, inputFile string) (*Workspace, error) {
	var root string
	for attempt := 0; ; attempt++ {
		root = filepath.Join(baseDir, scratchPrefix+randomSuffix(suffixLength))
		err := os.Mkdir(root, 0o755)
		if err == nil {
			break
		}
		if errors.Is(err, os.ErrExist) && attempt < maxCreateAttempts-1 {
			continue
		}
		return nil, &WorkspaceCreateError{Dir: root, Err: err}
	}

	staged := filepath.Join(root, filepath.Base(inputFile))
	if err := copyFile(inputFile, staged); err != nil {
		_ = os.RemoveAll(root)
		return nil, &WorkspaceCreateError{Dir: root, Err: err}
	}
	return &Workspace{Root: root, StagedInput: staged}, nil
}

// Publish copies the clustering result for the given formatted file out of
// the workspace to <outputDir>/<outputFile>. Returns ErrNoResult when the
// run left no result behind.
func (ws *Workspace) Publish(outputDir, outputFile, formattedName string) error {
	resultPath := filepath.Join(ws.Root, resultPrefix+formattedName)
	if _, err := os.Stat(resultPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", resultPath, ErrNoResult)
		}
		return fmt.Errorf("stat result file: %w", err)
	}
	if err := copyFile(resultPath, filepath.Join(outputDir, outputFile)); err != nil {
		return fmt.Errorf("publish result: %w", err)
	}
	return nil
}

// Cleanup removes the workspace tree. Safe to call more than once.
func (ws *Workspace) Cleanup() error {
	return os.RemoveAll(ws.Root)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
