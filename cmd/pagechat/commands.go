package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/pagechat/internal/app"
)

// rootState is shared between the root command and its subcommands. The app
// is built once flags are parsed.
type rootState struct {
	configPath string
	envFiles   []string
	flags      app.Config
	app        *app.App
}

func newRootCmd() *cobra.Command {
	st := &rootState{}
	root := &cobra.Command{
		Use:   "pagechat",
		Short: "Scrape a webpage and ask questions about it",
		Long: `pagechat fetches a single webpage, stores its title, description, headings
and paragraphs as a snapshot, and answers questions about it with an
OpenAI-compatible chat model (a local Ollama by default).

Usage:
  pagechat scrape <url>
  pagechat ask <question>
  pagechat chat`,
		Version:       app.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(st)
			if err != nil {
				return err
			}
			if cfg.Verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}
			st.app = a
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if st.app != nil {
				st.app.Close()
			}
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&st.configPath, "config", "", "Path to a YAML or JSON config file")
	f.StringSliceVar(&st.envFiles, "env-file", app.DefaultEnvFiles, "Dotenv files loaded before reading the environment")
	f.StringVar(&st.flags.DataPath, "data", "", "Snapshot file (default \""+app.DefaultDataPath+"\"; .yaml selects YAML)")
	f.StringVar(&st.flags.LLMBaseURL, "llm.base", "", "OpenAI-compatible base URL (default \""+app.DefaultLLMBaseURL+"\")")
	f.StringVar(&st.flags.LLMModel, "llm.model", "", "Model name (default \""+app.DefaultLLMModel+"\")")
	f.StringVar(&st.flags.LLMAPIKey, "llm.key", "", "API key for the model server")
	f.DurationVar(&st.flags.LLMTimeout, "llm.timeout", 0, "Timeout for one model call (default 2m)")
	f.StringVar(&st.flags.SystemPrompt, "llm.systemPrompt", "", "Optional system message sent before the question")
	f.DurationVar(&st.flags.FetchTimeout, "fetch.timeout", 0, "Timeout for the page request (default 10s)")
	f.StringVar(&st.flags.UserAgent, "fetch.ua", "", "User-Agent for the page request")
	f.StringVar(&st.flags.CacheDir, "cache.dir", "", "Answer cache directory; empty disables caching")
	f.DurationVar(&st.flags.CacheMaxAge, "cache.maxAge", 0, "Purge cached answers older than this (e.g. 24h); 0 disables")
	f.BoolVar(&st.flags.CacheClear, "cache.clear", false, "Clear the answer cache before running")
	f.BoolVar(&st.flags.CacheStrictPerms, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
	f.BoolVarP(&st.flags.Verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(
		newScrapeCmd(st),
		newAskCmd(st),
		newShowCmd(st),
		newExportCmd(st),
		newModelsCmd(st),
		newChatCmd(st),
	)
	return root
}

// resolveConfig applies flags > env > config file > defaults.
func resolveConfig(st *rootState) (app.Config, error) {
	if err := app.LoadEnvFiles(st.envFiles...); err != nil {
		return app.Config{}, err
	}
	cfg := st.flags
	app.ApplyEnvToConfig(&cfg)
	if strings.TrimSpace(st.configPath) != "" {
		fc, err := app.LoadConfigFile(st.configPath)
		if err != nil {
			return app.Config{}, fmt.Errorf("config file: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyDefaults(&cfg)
	if err := app.ValidateConfig(cfg); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

func newScrapeCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <url>",
		Short: "Fetch a webpage and replace the stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Scraping and processing URL: %s\n", args[0])
			res := st.app.Scrape(cmd.Context(), args[0])
			if !res.OK {
				return failure(res.Message, res.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Message)
			return nil
		},
	}
}

func newAskCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the stored snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer, res := st.app.Ask(cmd.Context(), strings.Join(args, " "))
			if !res.OK {
				return failure(res.Message, res.Err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Answer:")
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func newShowCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored snapshot as Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			md, err := st.app.Export("md", "")
			if err != nil {
				return failure(err.Error(), err)
			}
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		},
	}
}

func newExportCmd(st *rootState) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the stored snapshot as Markdown or PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return fmt.Errorf("--out is required")
			}
			if _, err := st.app.Export(format, out); err != nil {
				return failure(err.Error(), err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "md", "Export format: md or pdf")
	cmd.Flags().StringVar(&out, "out", "", "Output file path")
	return cmd
}

func newModelsCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models offered by the model server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ids, err := st.app.Models(cmd.Context())
			if err != nil {
				return err
			}
			current := st.app.Config().LLMModel
			for _, id := range ids {
				marker := "  "
				if id == current {
					marker = "* "
				}
				fmt.Fprintln(cmd.OutOrStdout(), marker+id)
			}
			return nil
		},
	}
}

func newChatCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Interactive session: paste a URL to scrape, type a question to ask",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return st.app.Chat(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
