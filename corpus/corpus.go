package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Terminator marks end-of-name. It is appended to every normalized name and
// is never a valid prefix character.
const Terminator = '@'

// LoadNames reads one species name per line from path and normalizes each
// record. Blank lines survive as terminator-only records; they encode to
// all-zero rows downstream.
func LoadNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: %w", err)
	}
	defer f.Close()

	var names []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		names = append(names, Normalize(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("corpus: read %s: %w", path, err)
	}
	return names, nil
}

// Normalize lowercases a raw name, joins the genus/species words with an
// underscore and appends the terminator.
func Normalize(raw string) string {
	n := strings.ToLower(strings.TrimSpace(raw))
	n = strings.ReplaceAll(n, " ", "_")
	return n + string(Terminator)
}
