// Package faq holds the FAQ knowledge base and a token-overlap matcher over it.
package faq

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTopK       = 3
	DefaultMinOverlap = 1
)

var ErrMalformed = errors.New("malformed faq file")

// Entry is a single question/answer pair.
type Entry struct {
	Question string `json:"q" yaml:"q"`
	Answer   string `json:"a" yaml:"a"`
}

// Load reads a JSON array of {q, a} objects. Files ending in .yaml or .yml
// are decoded as a YAML sequence with the same keys.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq %s: %w", path, err)
	}

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	for i, e := range entries {
		if strings.TrimSpace(e.Question) == "" {
			return nil, fmt.Errorf("%w: %s: entry %d has empty question", ErrMalformed, path, i)
		}
	}
	return entries, nil
}

var wordRe = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

// Tokenize lower-cases text and returns the set of its word tokens.
func Tokenize(text string) map[string]struct{} {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Overlap counts the tokens shared by both sets.
func Overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

// FindTopMatches scores every entry by token overlap with the question and
// returns at most k entries with score >= minOverlap, best first. Entries with
// equal scores keep their original order.
func FindTopMatches(question string, entries []Entry, k, minOverlap int) []Entry {
	if k <= 0 || len(entries) == 0 {
		return nil
	}
	q := Tokenize(question)

	type scored struct {
		score int
		entry Entry
	}
	all := make([]scored, 0, len(entries))
	for _, e := range entries {
		all = append(all, scored{score: Overlap(q, Tokenize(e.Question)), entry: e})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	if len(all) > k {
		all = all[:k]
	}
	var out []Entry
	for _, s := range all {
		if s.score >= minOverlap {
			out = append(out, s.entry)
		}
	}
	return out
}

const notFoundContext = "Подходящего вопроса в FAQ не найдено. " +
	"Ответь, что у тебя нет достаточной информации и предложи обратиться к оператору."

// BuildContext renders matches as grounding text for the model. With no
// matches it instructs the model to admit it lacks information.
func BuildContext(matches []Entry) string {
	if len(matches) == 0 {
		return notFoundContext
	}
	blocks := make([]string, 0, len(matches))
	for _, m := range matches {
		blocks = append(blocks, fmt.Sprintf("Вопрос: %s\nОтвет: %s", m.Question, m.Answer))
	}
	return "Выдержка из FAQ:\n\n" + strings.Join(blocks, "\n\n")
}
