package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/omr-service/internal/omr"
)

func newProfileCommand(root *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the active calibration profile as YAML",
		Long: "Print the active calibration profile as YAML. With --out the profile is written to a file\n" +
			"instead, which makes a convenient starting point for a custom calibration.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := root.params()
			if err != nil {
				return err
			}

			if out != "" {
				return omr.SaveProfile(out, params)
			}
			return omr.WriteProfile(cmd.OutOrStdout(), params)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the profile to this file")

	return cmd
}
