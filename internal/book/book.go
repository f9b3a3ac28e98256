// Package book holds opening moves keyed by position hash.
package book

import (
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hailam/glowfish/internal/board"
)

//go:embed book.txt
var defaultData []byte

// defaultBook is built once from the embedded data and never modified.
var defaultBook *Book

func init() {
	bk, err := Parse(bytes.NewReader(defaultData))
	if err != nil {
		panic(fmt.Sprintf("book: embedded book is corrupt: %v", err))
	}
	defaultBook = bk
}

// Default returns the embedded opening book.
func Default() *Book {
	return defaultBook
}

// Book maps position hashes to candidate moves.
type Book struct {
	entries map[uint64][]board.Move
}

// New creates an empty book.
func New() *Book {
	return &Book{
		entries: make(map[uint64][]board.Move),
	}
}

// Load reads a book file in the "FEN|move,move" text format.
func Load(filename string) (*Book, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a book from r. Each non-blank line that does not start with
// '#' is either "FEN|move,move,..." or "moves m1 m2 ...", a line of play
// from the standard start where every move becomes a candidate in the
// position before it. Every move must be legal in its position.
func Parse(r io.Reader) (*Book, error) {
	bk := New()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(text, "moves "); ok {
			if err := bk.addLine(strings.Fields(rest)); err != nil {
				return nil, fmt.Errorf("book: line %d: %w", line, err)
			}
			continue
		}
		fen, list, ok := strings.Cut(text, "|")
		if !ok {
			return nil, fmt.Errorf("book: line %d: missing '|'", line)
		}
		pos, err := board.ParseFEN(fen)
		if err != nil {
			return nil, fmt.Errorf("book: line %d: %w", line, err)
		}
		var moves []board.Move
		for _, s := range strings.Split(list, ",") {
			mv, err := board.ParseMove(strings.TrimSpace(s))
			if err != nil {
				return nil, fmt.Errorf("book: line %d: %w", line, err)
			}
			moves = append(moves, mv)
		}
		if err := bk.Add(pos, moves...); err != nil {
			return nil, fmt.Errorf("book: line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return bk, nil
}

// Add records moves for a position. Moves already present are skipped.
func (b *Book) Add(pos *board.Board, moves ...board.Move) error {
	key := pos.Hash()
	for _, mv := range moves {
		if !pos.IsLegal(mv) {
			return fmt.Errorf("illegal move %s in %s", mv, pos.FEN())
		}
		if !contains(b.entries[key], mv) {
			b.entries[key] = append(b.entries[key], mv)
		}
	}
	return nil
}

func (b *Book) addLine(moves []string) error {
	pos := board.NewBoard()
	for _, s := range moves {
		mv, err := board.ParseMove(s)
		if err != nil {
			return err
		}
		if err := b.Add(pos, mv); err != nil {
			return err
		}
		pos.PlayUnchecked(mv)
	}
	return nil
}

func contains(moves []board.Move, mv board.Move) bool {
	for _, m := range moves {
		if m == mv {
			return true
		}
	}
	return false
}

// Lookup returns the candidate moves for a position hash, or nil.
// The returned slice must not be modified.
func (b *Book) Lookup(hash uint64) []board.Move {
	if b == nil {
		return nil
	}
	return b.entries[hash]
}

// Size returns the number of positions in the book.
func (b *Book) Size() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}
