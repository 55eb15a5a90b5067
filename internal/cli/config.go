package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mmastrac/reedsolomon-ecc/pkg/config"
	"github.com/spf13/cobra"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration and encoder profiles",
	}

	cmd.AddCommand(
		newConfigShowCommand(),
		newConfigInitCommand(),
		newConfigProfilesCommand(),
		newConfigSetProfileCommand(),
		newConfigDeleteProfileCommand(),
	)

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !jsonOutput(cmd) {
				color.New(color.FgYellow).Fprintf(out, "# %s\n", m.Path())
			}
			return writeJSON(out, m.Config())
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if _, err := os.Stat(m.Path()); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", m.Path())
			}

			*m.Config() = *config.DefaultConfig()
			if err := m.Save(); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", m.Path())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

func newConfigProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List encoder profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(out, m.Config().Profiles)
			}

			cyan := color.New(color.FgCyan, color.Bold)
			for _, name := range m.ListProfiles() {
				p, err := m.Profile(name)
				if err != nil {
					return err
				}

				marker := " "
				if name == m.Config().Defaults.Profile {
					marker = "*"
				}
				cyan.Fprintf(out, "%s %s", marker, name)
				fmt.Fprintf(out, "  k=%d s=%d r=%d", p.MessageSymbols, p.CorrectableErrors, p.SymbolWidth)
				if p.Description != "" {
					fmt.Fprintf(out, "  %s", p.Description)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func newConfigSetProfileCommand() *cobra.Command {
	var (
		profile     config.Profile
		makeDefault bool
	)

	cmd := &cobra.Command{
		Use:   "set-profile <name>",
		Short: "Add or replace an encoder profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := m.SetProfile(args[0], profile); err != nil {
				return err
			}
			if makeDefault {
				m.Config().Defaults.Profile = args[0]
			}

			if err := m.Save(); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Saved profile '%s'\n", args[0])
			return nil
		},
	}

	cmd.Flags().IntVarP(&profile.MessageSymbols, "message-symbols", "k", 512, "Message symbols per block")
	cmd.Flags().IntVarP(&profile.CorrectableErrors, "errors", "s", 4, "Correctable symbol errors")
	cmd.Flags().IntVarP(&profile.SymbolWidth, "width", "r", 10, "Symbol width in bits")
	cmd.Flags().StringVar(&profile.Description, "description", "", "Free text description")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Make this the default profile")

	return cmd
}

func newConfigDeleteProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-profile <name>",
		Short: "Remove an encoder profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if err := m.DeleteProfile(args[0]); err != nil {
				return err
			}
			if err := m.Save(); err != nil {
				return err
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Deleted profile '%s'\n", args[0])
			return nil
		},
	}
}
