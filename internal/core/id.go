package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// IDGenerator produces unique, sequential identifiers.
type IDGenerator interface {
	NextID() (string, error)
}

// fileIDGenerator implements IDGenerator by persisting a counter in a file
// on disk, one counter file per prefix.
type fileIDGenerator struct {
	basePath string
	prefix   string
	padWidth int
}

// NewIDGenerator creates an IDGenerator that stores its counter in a
// .{prefix}_counter file within basePath. padWidth controls the zero-padding
// width of the numeric portion; use 0 for no padding.
func NewIDGenerator(basePath, prefix string, padWidth int) IDGenerator {
	return &fileIDGenerator{
		basePath: basePath,
		prefix:   prefix,
		padWidth: padWidth,
	}
}

// NextID reads the current counter, increments it, writes it back, and
// returns the formatted ID (e.g. ITEM-0001). A missing counter file starts
// the sequence at 1.
func (g *fileIDGenerator) NextID() (string, error) {
	counterPath := filepath.Join(g.basePath, "."+strings.ToLower(g.prefix)+"_counter")

	counter := 0
	data, err := os.ReadFile(counterPath)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("reading %s counter file: %w", g.prefix, err)
	}
	if err == nil {
		trimmed := strings.TrimSpace(string(data))
		counter, err = strconv.Atoi(trimmed)
		if err != nil {
			return "", fmt.Errorf("parsing %s counter %q: %w", g.prefix, trimmed, err)
		}
	}

	counter++

	if err := os.MkdirAll(g.basePath, 0o750); err != nil {
		return "", fmt.Errorf("creating base path for %s counter: %w", g.prefix, err)
	}
	if err := os.WriteFile(counterPath, []byte(strconv.Itoa(counter)), 0o600); err != nil {
		return "", fmt.Errorf("writing %s counter file: %w", g.prefix, err)
	}

	if g.padWidth > 0 {
		return fmt.Sprintf("%s-%0*d", g.prefix, g.padWidth, counter), nil
	}
	return fmt.Sprintf("%s-%d", g.prefix, counter), nil
}
