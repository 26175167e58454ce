// Copyright (c) 2015-2026 Alexander Lokhman
//
// This source code is licensed under the MIT License found in the
// LICENSE file in the root directory of this source tree.

// Command dtsp is the host boundary of the DTSP engine: it seals and opens
// frames on stdin/stdout and provisions shared seeds.
package main

func main() {
	Execute()
}
