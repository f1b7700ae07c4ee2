// Package main provides the POCKET+ command line interface.
//
// POCKET+ is a lossless compression algorithm specified in CCSDS 124.0-B-1.
// This CLI provides compress and decompress functionality similar to gzip.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanagraspace/pocketplus/pocketplus"
)

const banner = `  ____   ___   ____ _  _______ _____     _
 |  _ \ / _ \ / ___| |/ / ____|_   _|  _| |_
 | |_) | | | | |   | ' /|  _|   | |   |_   _|
 |  __/| |_| | |___| . \| |___  | |     |_|
 |_|    \___/ \____|_|\_\_____| |_|

         by  T A N A G R A  S P A C E`

const citation = `References:
  CCSDS 124.0-B-1: https://ccsds.org/Pubs/124x0b1.pdf
  ESA POCKET+: https://opssat.esa.int/pocket-plus/

Citation:
  D. Evans, G. Labreche, D. Marszk, S. Bammens, M. Hernandez-Cabronero,
  V. Zelenevskiy, V. Shiradhonkar, M. Starcik, and M. Henkel. 2022.
  "Implementing the New CCSDS Housekeeping Data Compression Standard
  124.0-B-1 (based on POCKET+) on OPS-SAT-1," Proceedings of the
  Small Satellite Conference, Communications, SSC22-XII-03.
  https://digitalcommons.usu.edu/smallsat/2022/all2022/133/`

func makeDecompressFilename(input string) string {
	if strings.HasSuffix(input, ".pkt") {
		return strings.TrimSuffix(input, ".pkt") + ".depkt"
	}
	return input + ".depkt"
}

func runCompress(inputPath string, packetSize, pt, ft, rt, robustness int) error {
	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("cannot open input file %s: %w", inputPath, err)
	}
	if len(inputData) == 0 {
		return fmt.Errorf("input file is empty")
	}
	if len(inputData)%packetSize != 0 {
		return fmt.Errorf("input size (%d) not divisible by packet size (%d)", len(inputData), packetSize)
	}

	outputData, err := pocketplus.Compress(inputData, packetSize, robustness, pt, ft, rt)
	if err != nil {
		return fmt.Errorf("compression failed: %w", err)
	}

	outputPath := inputPath + ".pkt"
	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("cannot write output file %s: %w", outputPath, err)
	}

	numPackets := len(inputData) / packetSize
	ratio := float64(len(inputData)) / float64(len(outputData))
	fmt.Printf("Input:       %s (%d bytes, %d packets)\n", inputPath, len(inputData), numPackets)
	fmt.Printf("Output:      %s (%d bytes)\n", outputPath, len(outputData))
	fmt.Printf("Ratio:       %.2fx\n", ratio)
	fmt.Printf("Parameters:  R=%d, pt=%d, ft=%d, rt=%d\n", robustness, pt, ft, rt)

	return nil
}

func runDecompress(inputPath string, packetSize, robustness int) error {
	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("cannot open input file %s: %w", inputPath, err)
	}
	if len(inputData) == 0 {
		return fmt.Errorf("input file is empty")
	}

	outputData, err := pocketplus.Decompress(inputData, packetSize, robustness)
	if err != nil {
		return fmt.Errorf("decompression failed: %w", err)
	}

	outputPath := makeDecompressFilename(inputPath)
	if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
		return fmt.Errorf("cannot write output file %s: %w", outputPath, err)
	}

	numPackets := len(outputData) / packetSize
	expansion := float64(len(outputData)) / float64(len(inputData))
	fmt.Printf("Input:       %s (%d bytes)\n", inputPath, len(inputData))
	fmt.Printf("Output:      %s (%d bytes, %d packets)\n", outputPath, len(outputData), numPackets)
	fmt.Printf("Expansion:   %.2fx\n", expansion)
	fmt.Printf("Parameters:  packet_size=%d, R=%d\n", packetSize, robustness)

	return nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "pocketplus",
		Short:   "CCSDS 124.0-B-1 (POCKET+) lossless housekeeping telemetry compression",
		Version: pocketplus.Version,
		Long:    banner + "\n\nCCSDS 124.0-B-1 Lossless Compression\n\n" + citation,
	}

	var compressCmd = &cobra.Command{
		Use:   "compress <input> <packet_size> <pt> <ft> <rt> <robustness>",
		Short: "Compress a file of fixed-length packets",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			packetSize, err := parsePositiveInt(args[1], 1, 8192, "packet_size")
			if err != nil {
				return err
			}
			pt, err := parsePositiveInt(args[2], 1, 1<<30, "pt")
			if err != nil {
				return err
			}
			ft, err := parsePositiveInt(args[3], 1, 1<<30, "ft")
			if err != nil {
				return err
			}
			rt, err := parsePositiveInt(args[4], 1, 1<<30, "rt")
			if err != nil {
				return err
			}
			robustness, err := parsePositiveInt(args[5], 0, 7, "robustness")
			if err != nil {
				return err
			}
			return runCompress(args[0], packetSize, pt, ft, rt, robustness)
		},
	}

	var decompressCmd = &cobra.Command{
		Use:   "decompress <input.pkt> <packet_size> <robustness>",
		Short: "Decompress a POCKET+ compressed file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			packetSize, err := parsePositiveInt(args[1], 1, 8192, "packet_size")
			if err != nil {
				return err
			}
			robustness, err := parsePositiveInt(args[2], 0, 7, "robustness")
			if err != nil {
				return err
			}
			return runDecompress(args[0], packetSize, robustness)
		},
	}

	root.AddCommand(compressCmd, decompressCmd)
	return root
}

func parsePositiveInt(s string, min, max int, name string) (int, error) {
	var value int
	if _, err := fmt.Sscanf(s, "%d", &value); err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%s must be between %d and %d", name, min, max)
	}
	return value, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
