package cmd

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"conference-site/pkg/widgets"
)

// newMinesweeperCmd creates a new command for playing the minigame in a terminal
func newMinesweeperCmd() *cobra.Command {
	var (
		rows, cols, mines int
		seed              int64
	)

	cmd := &cobra.Command{
		Use:   "minesweeper",
		Short: "Play the site's minesweeper game in the terminal",
		Long: `Play minesweeper on stdin. Commands:
  r <row> <col>   reveal a cell
  f <row> <col>   toggle a flag
  n               start a new game
  q               quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			game := widgets.NewMinesweeper(rows, cols, mines, rand.New(rand.NewSource(seed)))
			game.Reset()
			return playMinesweeper(cmd.InOrStdin(), cmd.OutOrStdout(), game)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", widgets.DefaultRows, "Board rows")
	cmd.Flags().IntVar(&cols, "cols", widgets.DefaultCols, "Board columns")
	cmd.Flags().IntVar(&mines, "mines", widgets.DefaultMines, "Number of mines")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 picks one)")
	return cmd
}

// playMinesweeper runs the game loop until quit or end of input
func playMinesweeper(in io.Reader, out io.Writer, game *widgets.Minesweeper) error {
	scanner := bufio.NewScanner(in)
	printGame(out, game)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q":
			return nil
		case "n":
			game.Reset()
		case "r", "f":
			if len(fields) != 3 {
				fmt.Fprintln(out, "usage: r|f <row> <col>")
				continue
			}
			r, errR := strconv.Atoi(fields[1])
			c, errC := strconv.Atoi(fields[2])
			if errR != nil || errC != nil {
				fmt.Fprintln(out, "row and col must be numbers")
				continue
			}
			var err error
			if fields[0] == "r" {
				err = game.Reveal(r, c)
			} else {
				err = game.ToggleFlag(r, c)
			}
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
			continue
		}
		printGame(out, game)
	}
	return scanner.Err()
}

func printGame(out io.Writer, game *widgets.Minesweeper) {
	fmt.Fprint(out, game.String())
	fmt.Fprintf(out, "[%s] flags %d/%d\n", game.State(), game.FlagsUsed(), game.Mines())
	switch game.State() {
	case widgets.StateWon:
		fmt.Fprintln(out, "SECTOR CLEARED. Press n for a new game or q to quit.")
	case widgets.StateLost:
		fmt.Fprintln(out, "MINE DETONATED. Press n for a new game or q to quit.")
	}
}
