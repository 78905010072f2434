package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/day-intake/internal/config"
)

func init() {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  "Print the effective configuration as YAML. With --write, save it to the given path as a starting point.",
		Args:  cobra.NoArgs,
		Run:   runConfig,
	}

	cmd.Flags().String("write", "", "Write the effective configuration to this path")

	RootCmd.AddCommand(cmd)
}

func runConfig(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	if path, _ := cmd.Flags().GetString("write"); path != "" {
		if err := config.Save(path, cfg); err != nil {
			exitErr("write config", err)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		exitErr("config", err)
	}
	fmt.Print(string(b))
}
