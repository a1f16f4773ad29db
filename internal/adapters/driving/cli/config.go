package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/veriscan-labs/veriscan-cli/internal/adapters/driven/config/file"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the veriscan configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long: `Writes the built-in defaults to the config path so thresholds and the
vectorizer provider can be edited. Refuses to overwrite an existing
file.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the effective config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func effectiveConfigPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	return configfile.DefaultPath()
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := effectiveConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := configfile.Save(path, configfile.Default()); err != nil {
		return err
	}
	cmd.Printf("Wrote default config to %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	path, err := effectiveConfigPath()
	if err != nil {
		return err
	}
	cmd.Println(path)
	return nil
}
