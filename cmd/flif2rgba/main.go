// flif2rgba is a tool which fully decodes a FLIF file and writes its first
// frame as packed 8-bit RGBA rows to a raw ".rgba" file, preceded by a
// 8-byte little-endian width/height header so a reader can reshape the
// data without a side channel.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/flif-go/flif"
	"github.com/mewkiz/pkg/osutil"
	"github.com/mewkiz/pkg/pathutil"
)

// flagForce specifies if file overwriting should be forced, when an .rgba
// file of the same name already exists.
var flagForce bool

func init() {
	flag.BoolVar(&flagForce, "f", false, "Force overwrite.")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: flif2rgba [OPTION]... FILE...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}
	for _, path := range flag.Args() {
		if err := flif2rgba(path); err != nil {
			log.Fatal(err)
		}
	}
}

// flif2rgba decodes the provided FLIF file's first frame and writes it as a
// raw packed-RGBA8 file.
func flif2rgba(path string) error {
	s, err := flif.Open(path)
	if err != nil {
		return err
	}
	if len(s.Images) == 0 {
		return fmt.Errorf("%s: no frames decoded", path)
	}
	img := s.Images[0]

	outPath := pathutil.TrimExt(path) + ".rgba"
	if !flagForce {
		exists, err := osutil.Exists(outPath)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("the file %q exists already", outPath)
		}
	}
	fw, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer fw.Close()

	bw := bufio.NewWriter(fw)
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(img.Width))
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(img.Height))
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}
	for r := 0; r < img.Height; r++ {
		if _, err := bw.Write(img.RowRGBA8(r)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
