package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rwtools/pkg/archive"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported archive formats",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Supported formats:")
		for _, d := range archive.Drivers() {
			decode := ""
			if d.Decode != nil {
				decode = " [decodes]"
			}
			fmt.Printf("  %-7s %s (%s layout)%s\n", d.Format, d.Description, d.Layout.Kind, decode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
