package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "shapegen",
	Short: "Transit shape inference from a map extract and a schedule",
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
