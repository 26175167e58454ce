// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var encryptOutput string

var encryptCmd = &cobra.Command{
	Use:   "encrypt [file]",
	Short: "Seal a payload into a DTSP frame",
	Long: `Seal a payload into a DTSP frame.

Reads the plaintext from the given file, or from stdin when no file is
given, and writes the frame to stdout (or --output).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return fmt.Errorf("engine init: %w", err)
		}
		defer eng.Close()

		plaintext, err := readInput(args)
		if err != nil {
			return err
		}

		return writeOutput(encryptOutput, eng.Encrypt(plaintext))
	},
}

func init() {
	encryptCmd.Flags().StringVarP(&encryptOutput, "output", "o", "", "Write the frame to a file instead of stdout")
	rootCmd.AddCommand(encryptCmd)
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return b, nil
}

func writeOutput(path string, b []byte) error {
	if path == "" {
		if _, err := os.Stdout.Write(b); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
