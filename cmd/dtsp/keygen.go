// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

package main

import (
	"encoding/hex"
	"fmt"
	"io"

	ctrdrbg "github.com/sixafter/aes-ctr-drbg"
	prng "github.com/sixafter/prng-chacha"
	"github.com/spf13/cobra"
)

var (
	keygenLength int
	keygenFIPS   bool
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a shared DTSP seed",
	Long: `Generate a shared DTSP seed.

Prints a hex-encoded random seed suitable for the "seed" configuration
value. Distribute the same seed to every peer over a trusted channel.
Entropy comes from a ChaCha20-based reader, or from a NIST SP 800-90A
AES-CTR-DRBG with --fips.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if keygenLength < 1 {
			return fmt.Errorf("seed length must be positive, got %d", keygenLength)
		}

		var r io.Reader = prng.Reader
		if keygenFIPS {
			r = ctrdrbg.Reader
		}

		seed := make([]byte, keygenLength)
		if _, err := io.ReadFull(r, seed); err != nil {
			return fmt.Errorf("read entropy: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(seed))
		return nil
	},
}

func init() {
	keygenCmd.Flags().IntVarP(&keygenLength, "length", "n", 32, "Seed length in bytes")
	keygenCmd.Flags().BoolVar(&keygenFIPS, "fips", false, "Draw entropy from the AES-CTR-DRBG reader")
	rootCmd.AddCommand(keygenCmd)
}
