package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"sudoku-api/internal/board"
	"sudoku-api/internal/engine"
	"sudoku-api/pkg/constants"
)

func main() {
	file := flag.String("file", "", "read puzzles, one 81-char board per line, from this file instead of arguments")
	limit := flag.Int("limit", 1, "maximum number of solutions to enumerate per puzzle")
	pretty := flag.Bool("pretty", false, "print the solved grid in boxed form")
	flag.Parse()

	var puzzles []string
	if *file != "" {
		f, err := os.Open(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening %s: %v\n", *file, err)
			os.Exit(1)
		}
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if len(line) == constants.TotalCells {
				puzzles = append(puzzles, line)
			}
		}
	} else {
		puzzles = flag.Args()
	}

	if len(puzzles) == 0 {
		fmt.Fprintln(os.Stderr, "usage: solve [-limit N] [-pretty] <81-char-board> [...]")
		fmt.Fprintln(os.Stderr, "   or: solve -file puzzles.txt")
		os.Exit(1)
	}

	exitCode := 0
	for _, p := range puzzles {
		b, err := board.ParseBoard(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %q: %v\n", p, err)
			exitCode = 1
			continue
		}

		solution, count, guesses := engine.Solve(b, *limit)
		if count == 0 {
			fmt.Printf("%s -> no solution\n", p)
			exitCode = 1
			continue
		}

		out := board.Board(solution)
		if *pretty {
			fmt.Print(out.Pretty())
		} else {
			fmt.Println(out.String())
		}
		fmt.Printf("solutions=%d guesses=%d\n", count, guesses)
	}
	os.Exit(exitCode)
}
