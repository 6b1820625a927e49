package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/urbanbloom/bloomgrid/internal/generator"
	"github.com/urbanbloom/bloomgrid/internal/server"
)

// Options defines all CLI flags and env vars for the bloomgrid server.
// Flags: --host, --port, --data-dir, --web-dir, --store-url
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_WEB_DIR, SERVICE_STORE_URL
type Options struct {
	Host     string `doc:"Host to bind to" default:"0.0.0.0"`
	Port     int    `doc:"Port to listen on" short:"p" default:"8094"`
	DataDir  string `doc:"Directory holding the geojson/ distribution files" default:".data"`
	WebDir   string `doc:"Path to web/ directory" default:"web"`
	StoreURL string `doc:"Base URL for distribution fetches (default: this server)" default:""`
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func newServer(opts *Options) *server.Server {
	return server.New(server.Config{
		Host:     opts.Host,
		Port:     fmt.Sprintf("%d", opts.Port),
		DataDir:  opts.DataDir,
		WebDir:   opts.WebDir,
		StoreURL: opts.StoreURL,
		Logger:   newLogger(),
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv := newServer(opts)

		hooks.OnStart(func() {
			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("bloomgrid server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Data:    %s\n", opts.DataDir)
			fmt.Println()
			fmt.Printf("  Viewer:  %s/viewer\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Println()

			if err := http.ListenAndServe(addr, srv); err != nil {
				logger := newLogger()
				logger.Fatal().Err(err).Msg("server error")
			}
		})
	})

	cli.Root().Use = "bloomgrid"
	cli.Root().Short = "Flowering-tree hexagon distribution map"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv := newServer(opts)
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// generate subcommand: build the per-month distribution files from
	// a tree census and a species attribute table
	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate per-month H3 distribution files from a tree census",
		RunE: func(cmd *cobra.Command, args []string) error {
			censusPath, _ := cmd.Flags().GetString("tree-census-path")
			speciesPath, _ := cmd.Flags().GetString("tree-species-data")
			resolution, _ := cmd.Flags().GetInt("resolution")
			outputDir, _ := cmd.Flags().GetString("output-dir")

			if censusPath == "" || speciesPath == "" {
				return fmt.Errorf("--tree-census-path and --tree-species-data are required")
			}

			logger := newLogger()
			summary, err := generator.Run(cmd.Context(), generator.Config{
				CensusPath:  censusPath,
				SpeciesPath: speciesPath,
				Resolution:  resolution,
				OutputDir:   outputDir,
			}, logger)
			if err != nil {
				return err
			}

			logger.Info().
				Int("trees_matched", summary.TreesMatched).
				Int("trees_skipped", summary.TreesSkipped).
				Strs("months", summary.MonthsWritten).
				Msg("generation complete")
			return nil
		},
	}
	genCmd.Flags().String("tree-census-path", "", "Path to the tree census GeoJSON")
	genCmd.Flags().String("tree-species-data", "", "Path to the species table (.parquet or .csv)")
	genCmd.Flags().Int("resolution", 11, "H3 resolution")
	genCmd.Flags().StringP("output-dir", "o", ".data/geojson", "Output directory for the month files")
	cli.Root().AddCommand(genCmd)

	cli.Run()
}
