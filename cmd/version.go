package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Vovarama1992/wa-report-bridge/internal/version"
)

func newVersionCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			if long {
				out, _ := json.MarshalIndent(info, "", "  ")
				fmt.Println(string(out))
			} else {
				fmt.Println(info.Version)
			}
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Print detailed version information as JSON")
	return cmd
}
