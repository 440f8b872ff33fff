// Command analyze generates random opponent fleets and prints how heads,
// orientations and occupied cells are distributed, along with what each
// board cost to generate. A skewed heat map means the generator favours
// some layouts, which a player could learn to exploit.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/battleplanes/game/engine"
)

// countingRand counts the random draws a generation needs.
type countingRand struct {
	engine.Rand
	draws int
}

func (r *countingRand) IntN(n int) int {
	r.draws++
	return r.Rand.IntN(n)
}

func (r *countingRand) Shuffle(n int, swap func(i, j int)) {
	r.draws++
	r.Rand.Shuffle(n, swap)
}

// Report is the tally over all generated boards.
type Report struct {
	Boards       int
	Failures     int
	Orientations [4]int
	Heads        [engine.GridSize][engine.GridSize]int
	Occupied     [engine.GridSize][engine.GridSize]int
	Draws        []int
	Elapsed      time.Duration
}

// Analyze generates n boards with rng, giving each at most rounds rounds.
func Analyze(rng engine.Rand, n, rounds int) *Report {
	r := &Report{}
	counter := &countingRand{Rand: rng}
	start := time.Now()

	for i := 0; i < n; i++ {
		counter.draws = 0
		board, err := engine.GenerateRandomBoard(counter, rounds)
		if err != nil {
			r.Failures++
			continue
		}
		r.Boards++
		r.Draws = append(r.Draws, counter.draws)

		for _, p := range board.Planes() {
			r.Orientations[p.Orientation]++
			r.Heads[p.Head.Row()][p.Head.Col()]++
			r.Occupied[p.Head.Row()][p.Head.Col()]++
			for _, c := range p.VisibleTiles() {
				r.Occupied[c.Row()][c.Col()]++
			}
		}
	}

	r.Elapsed = time.Since(start)
	return r
}

// DrawStats returns the minimum, mean and maximum draws per board.
func (r *Report) DrawStats() (lo int, mean float64, hi int) {
	if len(r.Draws) == 0 {
		return 0, 0, 0
	}
	lo, hi = r.Draws[0], r.Draws[0]
	total := 0
	for _, d := range r.Draws {
		lo = min(lo, d)
		hi = max(hi, d)
		total += d
	}
	return lo, float64(total) / float64(len(r.Draws)), hi
}

// Write prints the report.
func (r *Report) Write(w io.Writer, heatmaps bool) {
	fmt.Fprintf(w, "Boards: %d generated, %d failed (%s)\n", r.Boards, r.Failures, r.Elapsed.Round(time.Millisecond))

	lo, mean, hi := r.DrawStats()
	fmt.Fprintf(w, "Random draws per board: min %d, mean %.1f, max %d\n", lo, mean, hi)

	planes := r.Boards * engine.PlanesPerBoard
	fmt.Fprintln(w, "\nOrientations:")
	for _, o := range engine.Orientations {
		share := 0.0
		if planes > 0 {
			share = 100 * float64(r.Orientations[o]) / float64(planes)
		}
		fmt.Fprintf(w, "  %s %6d  %5.1f%%\n", o, r.Orientations[o], share)
	}

	if heatmaps {
		fmt.Fprintln(w, "\nHeads per cell:")
		writeHeatmap(w, &r.Heads)
		fmt.Fprintln(w, "\nOccupancy per cell:")
		writeHeatmap(w, &r.Occupied)
	}
}

func writeHeatmap(w io.Writer, grid *[engine.GridSize][engine.GridSize]int) {
	var header strings.Builder
	header.WriteString("    ")
	for c := 0; c < engine.GridSize; c++ {
		fmt.Fprintf(&header, "%6c", 'A'+c)
	}
	fmt.Fprintln(w, header.String())

	for row := range grid {
		fmt.Fprintf(w, "%3d ", row+1)
		for _, n := range grid[row] {
			fmt.Fprintf(w, "%6d", n)
		}
		fmt.Fprintln(w)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "report the distribution of randomly generated fleets",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "boards", Aliases: []string{"n"}, Value: 1000, Usage: "number of boards to generate"},
			&cli.IntFlag{Name: "rounds", Value: engine.DefaultGenerationRounds, Usage: "generation rounds per board"},
			&cli.Uint64Flag{Name: "seed", Usage: "seed for reproducible runs (random when 0)"},
			&cli.BoolFlag{Name: "heatmap", Value: true, Usage: "print head and occupancy heat maps"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			n := cmd.Int("boards")
			if n <= 0 {
				return fmt.Errorf("--boards must be positive, got %d", n)
			}

			seed := cmd.Uint64("seed")
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			fmt.Fprintf(cmd.Root().Writer, "Seed: %d\n", seed)

			report := Analyze(engine.NewSeededRand(seed), n, cmd.Int("rounds"))
			report.Write(cmd.Root().Writer, cmd.Bool("heatmap"))
			return nil
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
