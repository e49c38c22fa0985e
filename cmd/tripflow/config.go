package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tripflow/tripflow/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(configCheckCmd(), configInitCmd())
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Validate configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load(args[0])
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			fmt.Printf("Configuration OK (storage: %s, provider: %s)\n",
				cfg.Storage.Driver, cfg.Provider.Model)
			return nil
		},
	}
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively generate a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("output")

			answers := initAnswers{
				Bind:    "127.0.0.1:8080",
				BaseURL: "https://api.openai.com/v1",
				Model:   "gpt-4o-mini",
				Driver:  config.DriverMemory,
			}
			if err := initForm(&answers).Run(); err != nil {
				return err
			}

			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("%s already exists, refusing to overwrite", out)
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := os.WriteFile(out, renderConfig(answers), 0o600); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "tripflow.yaml", "Output path for the generated file")
	return cmd
}

type initAnswers struct {
	Bind    string
	Token   string
	BaseURL string
	Model   string
	Driver  string
	DBPath  string
}

func initForm(a *initAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Listen address").
				Description("Host:port the gateway binds to").
				Value(&a.Bind),
			huh.NewInput().
				Title("API bearer token").
				Description("Clients must send this in the Authorization header").
				EchoMode(huh.EchoModePassword).
				Value(&a.Token).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("a bearer token is required")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Provider base URL").
				Description("OpenAI-compatible chat completions endpoint").
				Value(&a.BaseURL),
			huh.NewInput().
				Title("Model").
				Value(&a.Model),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Storage driver").
				Options(
					huh.NewOption("In-memory (conversations lost on restart)", config.DriverMemory),
					huh.NewOption("SQLite", config.DriverSQLite),
				).
				Value(&a.Driver),
			huh.NewInput().
				Title("SQLite database path").
				Placeholder("tripflow.db").
				Value(&a.DBPath),
		),
	)
}

// renderConfig emits the YAML by hand so the generated file keeps its
// comments and the API key stays an env reference rather than a literal.
func renderConfig(a initAnswers) []byte {
	dbPath := a.DBPath
	if a.Driver == config.DriverSQLite && dbPath == "" {
		dbPath = "tripflow.db"
	}
	out := fmt.Sprintf(`version: "1"

server:
  bind: %q
  auth:
    bearer_token: %q

provider:
  base_url: %q
  model: %q
  # The provider API key is read from this environment variable at startup.
  api_key_env: "TRIPFLOW_API_KEY"

storage:
  driver: %q
`, a.Bind, a.Token, a.BaseURL, a.Model, a.Driver)
	if a.Driver == config.DriverSQLite {
		out += fmt.Sprintf("  path: %q\n", dbPath)
	}
	return []byte(out)
}
