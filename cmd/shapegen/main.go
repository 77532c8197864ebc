// Command shapegen wires C1-C7 together into a single batch run: build the
// transit graph from a map extract, generate and solve shapes for every
// trip in a schedule, and write the resulting polylines.
//
// This binary is not part of the core's public contract (the core packages
// never import it); it exists only to prove the library's pieces compose
// end to end, the way an examples/ directory exercises a library without
// being the library.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
