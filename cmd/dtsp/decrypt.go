// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	dtsp "github.com/lokhman/dtsp-go"
)

var decryptOutput string

var decryptCmd = &cobra.Command{
	Use:   "decrypt [file]",
	Short: "Open a DTSP frame and recover its payload",
	Long: `Open a DTSP frame and recover its payload.

Reads the frame from the given file, or from stdin when no file is given,
and writes the plaintext to stdout (or --output). Rejected frames are
reported as warnings; a full replay cache is fatal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine()
		if err != nil {
			return fmt.Errorf("engine init: %w", err)
		}
		defer eng.Close()

		frame, err := readInput(args)
		if err != nil {
			return err
		}

		plaintext, err := eng.Decrypt(frame)
		if err != nil {
			// The one status a stuck receiver must not swallow.
			if errors.Is(err, dtsp.ErrCacheFull) {
				return fmt.Errorf("decrypt: %w", err)
			}
			slog.Warn("frame rejected", "reason", err, "length", len(frame))
			os.Exit(1)
		}

		return writeOutput(decryptOutput, plaintext)
	},
}

func init() {
	decryptCmd.Flags().StringVarP(&decryptOutput, "output", "o", "", "Write the plaintext to a file instead of stdout")
	rootCmd.AddCommand(decryptCmd)
}
