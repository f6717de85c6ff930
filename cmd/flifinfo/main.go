// flifinfo is a tool which fully decodes each FLIF file given and prints its
// frame count, each frame's dimensions and plane count (plus frame delay and
// alpha_zero_special where they apply), and its checksum status. It does not
// print bit depth or encoding method.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/flif-go/flif"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	for _, path := range flag.Args() {
		if err := identify(path); err != nil {
			log.Fatalln(err)
		}
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: flifinfo FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func identify(path string) error {
	s, err := flif.Open(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s:\n", path)
	fmt.Printf("  frames: %d\n", len(s.Images))
	for i, img := range s.Images {
		fmt.Printf("  frame[%d]: %dx%d, %d plane(s)\n", i, img.Width, img.Height, img.NumPlanes())
		if len(s.Images) > 1 {
			fmt.Printf("    delay: %d ms\n", img.FrameDelay)
		}
		if img.AlphaZeroSpecial {
			fmt.Println("    alpha_zero_special: true")
		}
	}
	computed, present, matches := s.Checksum()
	if present {
		fmt.Printf("  checksum: %08x (%s)\n", computed, matchWord(matches))
	} else {
		fmt.Println("  checksum: none")
	}
	return nil
}

func matchWord(matches bool) string {
	if matches {
		return "matches"
	}
	return "MISMATCH"
}
