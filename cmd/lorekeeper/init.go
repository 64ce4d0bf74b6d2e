package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lorekeeper/internal/config"
	"lorekeeper/internal/save"
	"lorekeeper/internal/session"
)

const sectionsTemplate = `version: 1
sections:
  - name: locations
    description: Places the party has visited or heard of
    statuses: [known, visited, destroyed]
  - name: lore
    description: Facts about the world
`

func initCmd() *cobra.Command {
	var projectName string
	var playerName string
	var withSections bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new lorekeeper project and its first save",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(projectName, playerName, withSections)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&playerName, "player", "Wanderer", "Player character name")
	cmd.Flags().BoolVar(&withSections, "sections", false, "Also write a starter "+config.DefaultSchemaPath)
	return cmd
}

func runInit(projectName, playerName string, withSections bool) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}
	if withSections {
		if _, err := os.Stat(config.DefaultSchemaPath); err == nil {
			return fmt.Errorf("%s already exists", config.DefaultSchemaPath)
		}
	}

	configContents := fmt.Sprintf("project: %s\nversion: 1\n\nsave: %s\n\nstore:\n  dsn: %s\n\nlog:\n  format: text\n  level: info\n\nplayer:\n  name: %s\n  stats:\n    - id: strength\n      value: 10\n    - id: wits\n      value: 10\n  currencies:\n    gold: 10\n", projectName, config.DefaultSavePath, config.DefaultStoreDSN, playerName)
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	if withSections {
		if err := os.WriteFile(config.DefaultSchemaPath, []byte(sectionsTemplate), 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", config.DefaultSchemaPath, err)
		}
	}

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}
	exists, err := save.Exists(cfg.Save)
	if err != nil {
		return err
	}
	if exists {
		fmt.Fprintf(os.Stdout, "Keeping existing save %s.\n", cfg.Save)
		return nil
	}

	id := session.NewID()
	if err := save.Write(cfg.Save, id, session.NewWorld(cfg).Export()); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Created %s and session %s (%s).\n", configPath, id, cfg.Save)
	return nil
}
