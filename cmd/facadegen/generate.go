package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/facadegen"
	"github.com/reoring/facadegen/schema"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the client package",
	Long: `Generate the client package from every schema file matching --schema.

Examples:
  # Generate with the juju override list
  facadegen generate --schema 'schemas/*.json' --output ./client --config configs/juju.yaml

  # Force recompilation of one more definition
  facadegen generate --schema 'schemas/*.json' --override FullStatus`,
	RunE: runGenerate,
}

var (
	schemaGlob    string
	outputDir     string
	packageName   string
	runtimeImport string
	configPath    string
	overrides     []string
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&schemaGlob, "schema", "s", "schemas/schemas-*.json", "glob of schema bundle files")
	generateCmd.Flags().StringVarP(&outputDir, "output", "o", "client", "output directory for generated files")
	generateCmd.Flags().StringVarP(&packageName, "package", "p", "", "generated package name (default \"client\")")
	generateCmd.Flags().StringVar(&runtimeImport, "runtime-import", "", "import path of the rpc runtime package")
	generateCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML or TOML config file")
	generateCmd.Flags().StringSliceVar(&overrides, "override", nil, "definition name to recompile in every bundle (repeatable)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	log := newLogger()

	var cfg facadegen.Config
	if configPath != "" {
		var err error
		if cfg, err = facadegen.LoadConfig(configPath); err != nil {
			return err
		}
	}
	opts := cfg.Options()
	if packageName != "" {
		opts.Package = packageName
	}
	if runtimeImport != "" {
		opts.RuntimeImport = runtimeImport
	}
	opts.Overrides = append(opts.Overrides, overrides...)
	opts.Logger = &log

	bundles, err := schema.LoadGlob(schemaGlob)
	if err != nil {
		return err
	}
	for _, b := range bundles {
		log.Debug().Str("bundle", b.Token).Int("records", len(b.Records)).Msg("loaded schema bundle")
	}

	arts, err := facadegen.Generate(bundles, opts)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	if err := arts.WriteDir(cmd.Context(), outputDir); err != nil {
		return err
	}
	log.Info().Str("output", outputDir).Int("files", len(arts.Files)).Msg("wrote client package")
	return nil
}
