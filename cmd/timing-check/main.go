package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sukalov/karaokemadness/internal/schedule"
	"github.com/sukalov/karaokemadness/internal/timing"
	"github.com/sukalov/karaokemadness/internal/utils"
)

func main() {
	var (
		outputFile string
		players    int
		difficulty int
		seed       int64
	)

	flag.StringVar(&outputFile, "output", "", "Write normalized JSON to this file")
	flag.IntVar(&players, "players", 0, "Preview an assignment for this many players")
	flag.IntVar(&difficulty, "difficulty", 1, "Preview difficulty (0-3)")
	flag.Int64Var(&seed, "seed", 42, "Preview seed")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <timed-lyrics.json>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		log.Fatalf("Error reading file: %v", err)
	}

	song, err := timing.Parse(data)
	if err != nil {
		log.Fatalf("Timed lyrics are invalid: %v", err)
	}

	fmt.Println("=== Timed Lyrics Check ===")
	fmt.Printf("File: %s\n", args[0])
	fmt.Printf("Lines: %d\n", len(song.Lines))
	fmt.Printf("Words: %d\n", song.WordCount())
	fmt.Printf("Sections: %d\n", len(song.Sections))
	fmt.Printf("Duration: %s\n", utils.FormatClock(song.DurationMs()))

	if players > 0 {
		preview(song, players, schedule.Difficulty(difficulty), seed)
	}

	if outputFile != "" {
		normalized, err := json.MarshalIndent(song, "", "  ")
		if err != nil {
			log.Fatalf("Error encoding normalized JSON: %v", err)
		}
		if err := os.WriteFile(outputFile, normalized, 0644); err != nil {
			log.Fatalf("Error saving file: %v", err)
		}
		fmt.Printf("Normalized JSON saved to: %s\n", outputFile)
	}

	fmt.Println("=== OK ===")
}

// preview prints the assignment the game would show, with numeric player
// labels since there are no names yet.
func preview(song *timing.Song, players int, difficulty schedule.Difficulty, seed int64) {
	assignment, err := schedule.Generate(song.Lines, song.Sections, players, difficulty, seed)
	if err != nil {
		log.Fatalf("Error generating preview: %v", err)
	}

	fmt.Printf("\nPreview: %d players, difficulty %d, seed %d\n", players, difficulty, seed)
	for _, line := range assignment.Lines {
		fmt.Printf("%3d. ", line.LineIndex+1)
		for i, w := range line.Words {
			if i == 0 || w.Owner != line.Words[i-1].Owner {
				if i > 0 {
					fmt.Print(" |")
				}
				if w.Owner == schedule.Everyone {
					fmt.Print(" [all]")
				} else {
					fmt.Printf(" [p%d]", w.Owner)
				}
			}
			fmt.Printf(" %s", w.Word.Word)
		}
		fmt.Println()
	}
}
