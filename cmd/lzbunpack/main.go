package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dargueta/gsla"
	"github.com/dargueta/gsla/utilities/compression"
)

func main() {
	if len(os.Args) != 3 && len(os.Args) != 4 {
		fmt.Fprintf(
			os.Stderr,
			"Expand a raw LZB stream.\nUsage: %s input-file output-file [expanded-size]\n"+
				"The expanded size defaults to %d, one full frame.\n",
			os.Args[0],
			gsla.FrameSize)
		os.Exit(1)
	}

	sourceFilePath := os.Args[1]
	outputFilePath := os.Args[2]

	expandedSize := gsla.FrameSize
	if len(os.Args) == 4 {
		size, err := strconv.Atoi(os.Args[3])
		if err != nil || size < 0 {
			fmt.Fprintf(os.Stderr, "Invalid expanded size: `%s`\n", os.Args[3])
			os.Exit(1)
		}
		expandedSize = size
	}

	sourceFile, errSrc := os.Open(sourceFilePath)
	if errSrc != nil {
		fmt.Fprintf(
			os.Stderr, "Failed to open file for reading: `%v`: %s\n", sourceFilePath, errSrc)
		os.Exit(1)
	}
	defer sourceFile.Close()

	outFile, errOut := os.Create(outputFilePath)
	if errOut != nil {
		fmt.Fprintf(
			os.Stderr, "Failed to open file for writing: `%v`: %s\n", outputFilePath, errOut)
		os.Exit(1)
	}
	defer outFile.Close()

	nWritten, err := compression.DecompressStream(sourceFile, outFile, expandedSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error expanding file: %s\n", err)
		os.Exit(2)
	}

	fmt.Printf("Expanded input file to %d bytes.\n", nWritten)
}
