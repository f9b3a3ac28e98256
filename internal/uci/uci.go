package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"runtime/pprof"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hailam/glowfish/internal/board"
	"github.com/hailam/glowfish/internal/engine"
	"github.com/hailam/glowfish/internal/game"
)

const maxDepth = 8

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine *engine.Engine
	game   *game.Game
	rng    *rand.Rand

	in     io.Reader
	outMu  sync.Mutex
	out    io.Writer
	errOut io.Writer

	// Search state
	searching  bool
	searchDone chan struct{}

	// CPU profiling
	profileFile *os.File
}

// New creates a UCI protocol handler reading commands from in and
// writing responses to out. Diagnostics go to stderr.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine: eng,
		game:   game.New(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		in:     in,
		out:    out,
		errOut: os.Stderr,
	}
}

// SetSeed makes book choices reproducible.
func (u *UCI) SetSeed(seed uint64) {
	u.rng = rand.New(rand.NewPCG(seed, seed))
}

func (u *UCI) println(format string, args ...any) {
	u.outMu.Lock()
	defer u.outMu.Unlock()
	fmt.Fprintf(u.out, format+"\n", args...)
}

func (u *UCI) infoString(format string, args ...any) {
	fmt.Fprintf(u.errOut, "info string "+format+"\n", args...)
}

// Run reads commands until "quit" or end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)
	defer u.handleStop()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.handleStop()
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			u.handleStop()
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			u.handleStop()
		case "quit":
			u.handleQuit()
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.handleDisplay()
		case "perft":
			u.handlePerft(args)
		}
	}
	return scanner.Err()
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name Glowfish")
	u.println("id author Glowfish developers")
	u.println("")
	u.println("option name Depth type spin default %d min 1 max %d", engine.DefaultDepth, maxDepth)
	u.println("option name OwnBook type check default true")
	u.println("uciok")
}

// handleNewGame resets the position.
func (u *UCI) handleNewGame() {
	u.handleStop()
	u.game = game.New()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	fenEnd, moveStart := len(args), len(args)
	if i := slices.Index(args, "moves"); i >= 0 {
		fenEnd, moveStart = i, i+1
	}

	var g *game.Game
	switch args[0] {
	case "startpos":
		g = game.New()
	case "fen":
		var err error
		g, err = game.FromFEN(strings.Join(args[1:fenEnd], " "))
		if err != nil {
			u.infoString("Invalid FEN: %v", err)
			return
		}
	default:
		return
	}

	// Moves after an illegal one are dropped; the position stays at the
	// last legal move. Unclaimed draws do not stop the replay.
	for _, moveStr := range args[moveStart:] {
		if _, err := g.ForcePlay(moveStr); err != nil {
			u.infoString("Invalid move: %s (%v)", moveStr, err)
			break
		}
	}
	u.game = g
}

// GoOptions holds parsed "go" command options. Only depth affects the
// search; clock parameters are accepted and ignored.
type GoOptions struct {
	Depth int
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) GoOptions {
	opts := GoOptions{}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			if i+1 < len(args) {
				opts.Depth, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "wtime", "btime", "winc", "binc", "movestogo", "movetime", "nodes":
			i++
		}
	}
	return opts
}

// handleGo starts a search of the current position.
func (u *UCI) handleGo(args []string) {
	u.handleStop()
	opts := parseGoOptions(args)

	depth := u.engine.Depth()
	if opts.Depth > 0 {
		depth = min(opts.Depth, maxDepth)
	}

	u.engine.OnInfo = u.sendInfo

	u.searching = true
	u.searchDone = make(chan struct{})

	g := u.game
	random := u.rng.Uint64()
	go func() {
		defer close(u.searchDone)

		saved := u.engine.Depth()
		u.engine.SetDepth(depth)
		move, err := u.engine.BestMove(g, random)
		u.engine.SetDepth(saved)

		if errors.Is(err, engine.ErrNoMove) {
			// Only send 0000 when the game is over.
			u.println("bestmove 0000")
			return
		}
		if err != nil {
			u.infoString("search failed: %v", err)
			u.println("bestmove 0000")
			return
		}
		u.println("bestmove %s", move)
	}()
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	if info.FromBook {
		u.println("info string book move %s", info.Move)
		return
	}

	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.ScoreString(info.Score),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	parts = append(parts, "pv "+info.Move.String())

	u.println("info %s", strings.Join(parts, " "))
}

// handleStop waits for a running search to finish. Searches are fixed
// depth, so there is nothing to interrupt.
func (u *UCI) handleStop() {
	if u.searching {
		<-u.searchDone
		u.searching = false
	}
}

// handleQuit waits for the search and stops profiling.
func (u *UCI) handleQuit() {
	u.handleStop()
	if u.profileFile != nil {
		pprof.StopCPUProfile()
		u.profileFile.Close()
		u.profileFile = nil
		u.infoString("CPU profile saved")
	}
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value string
	readingName := false
	readingValue := false

	for _, arg := range args {
		switch arg {
		case "name":
			readingName = true
			readingValue = false
		case "value":
			readingName = false
			readingValue = true
		default:
			if readingName {
				if name != "" {
					name += " "
				}
				name += arg
			} else if readingValue {
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	u.handleStop()
	switch strings.ToLower(name) {
	case "depth":
		depth, err := strconv.Atoi(value)
		if err != nil || depth < 1 || depth > maxDepth {
			u.infoString("Depth must be 1..%d", maxDepth)
			return
		}
		u.engine.SetDepth(depth)
	case "ownbook":
		u.engine.SetBookEnabled(strings.ToLower(value) == "true")
	case "cpuprofile":
		if u.profileFile != nil {
			pprof.StopCPUProfile()
			u.profileFile.Close()
			u.profileFile = nil
			u.infoString("CPU profile stopped")
		}
		if value != "" && value != "stop" {
			f, err := os.Create(value)
			if err != nil {
				u.infoString("Failed to create profile: %v", err)
				return
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				f.Close()
				u.infoString("Failed to start profile: %v", err)
				return
			}
			u.profileFile = f
			u.infoString("CPU profiling to %s", value)
		}
	}
}

// handleDisplay prints the board with its FEN, hash and game status.
func (u *UCI) handleDisplay() {
	b := u.game.Board()
	out := u.game.Outcome()
	u.println("%s", b.String())
	u.println("Fen: %s", b.FEN())
	u.println("Key: %016X", b.Hash())
	if out.Reason != game.ReasonNone {
		u.println("Status: %s (%s)", out.Status, out.Reason)
	} else {
		u.println("Status: %s", out.Status)
	}
}

// handlePerft runs a perft test.
func (u *UCI) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if d, err := strconv.Atoi(args[0]); err == nil && d >= 0 {
			depth = d
		}
	}

	b := u.game.Board()
	start := time.Now()
	nodes := uint64(1)
	if depth > 0 {
		nodes = 0
		for pm := range b.MoveSets() {
			for mv := range pm.Moves() {
				child := *b
				child.PlayUnchecked(mv)
				n := board.Perft(&child, depth-1)
				nodes += n
				u.println("%s: %d", mv, n)
			}
		}
	}
	elapsed := time.Since(start)

	u.println("")
	u.println("Nodes: %d", nodes)
	u.println("Time: %v", elapsed)
	if elapsed > 0 {
		u.println("NPS: %.0f", float64(nodes)/elapsed.Seconds())
	}
}
