package gcm

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// KeyStore is the bijection between dense ids and original node labels for
// one run, indexed by dense id. It is produced by the external formatter and
// never mutated after load.
type KeyStore struct {
	labels map[int]string
}

// LoadKeyStore parses a key file of "<original_label> <dense_id>" lines.
// A repeated dense id overwrites the earlier entry; the formatter never
// emits one, so this is not checked here.
func LoadKeyStore(path string) (*KeyStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open key file: %w", err)
	}
	defer f.Close()

	ks := &KeyStore{labels: map[int]string{}}
	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, &MalformedKeyRecordError{Path: path, Line: lineNum, Text: line}
		}
		denseID, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &MalformedKeyRecordError{Path: path, Line: lineNum, Text: line}
		}
		ks.labels[denseID] = fields[0]
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return ks, nil
}

// Label returns the original label for a dense id.
func (ks *KeyStore) Label(denseID int) (string, bool) {
	label, ok := ks.labels[denseID]
	return label, ok
}

// Len reports the number of key entries.
func (ks *KeyStore) Len() int { return len(ks.labels) }
