package gcm

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// RemapAssignments rewrites a cluster assignment file in place, replacing
// each positional dense id with its original node label. Line i (1-based)
// holds the cluster label of dense id i; the rewritten file holds
// "<original_label> <cluster_label>" lines in dense-id order. The pre-remap
// format does not survive.
func RemapAssignments(path string, ks *KeyStore) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open assignment file: %w", err)
	}

	var out strings.Builder
	scanner := bufio.NewScanner(f)
	denseID := 0
	for scanner.Scan() {
		denseID++
		raw := strings.TrimSpace(scanner.Text())
		cluster, err := strconv.Atoi(raw)
		if err != nil {
			f.Close()
			return fmt.Errorf("assignment %s line %d: bad cluster label %q", path, denseID, raw)
		}
		label, ok := ks.Label(denseID)
		if !ok {
			f.Close()
			return &UnknownDenseIDError{DenseID: denseID, Path: path}
		}
		fmt.Fprintf(&out, "%s %d\n", label, cluster)
	}
	if err := scanner.Err(); err != nil {
		f.Close()
		return fmt.Errorf("read assignment file: %w", err)
	}
	f.Close()

	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		return fmt.Errorf("rewrite assignment file: %w", err)
	}
	return nil
}
