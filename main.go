package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fivemoreminix/qide/pkg/format"
	"github.com/fivemoreminix/qide/ui"
)

var (
	cfgFile   string
	settings  Settings
	configErr error // Reported by the command, since OnInitialize cannot fail
)

var rootCmd = &cobra.Command{
	Use:   "qide [file]",
	Short: "A terminal text editor with rule-driven highlighting",
	Long: `qide edits one file in the terminal. Files are highlighted with the rules
of the format claiming their extension, and new lines are indented by brace depth.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runEditor,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"settings file (default: ~/.config/qide/config.yaml)")
	rootCmd.Flags().StringP("formats", "f", "", "root format configuration")
	rootCmd.Flags().Int("tab-width", Defaults().TabWidth, "columns per indent level")
	rootCmd.Flags().String("log", "", "write logs to this file")
	rootCmd.Flags().Bool("watch", Defaults().Watch, "reload formats when their files change")

	_ = viper.BindPFlag("formats", rootCmd.Flags().Lookup("formats"))
	_ = viper.BindPFlag("tab_width", rootCmd.Flags().Lookup("tab-width"))
	_ = viper.BindPFlag("log_file", rootCmd.Flags().Lookup("log"))
	_ = viper.BindPFlag("watch", rootCmd.Flags().Lookup("watch"))
}

func initConfig() {
	defaults := Defaults()
	viper.SetDefault("tab_width", defaults.TabWidth)
	viper.SetDefault("watch", defaults.Watch)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, _ := os.UserHomeDir()
		viper.AddConfigPath(filepath.Join(home, ".config", "qide"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = fmt.Errorf("reading settings: %w", err)
			return
		}
	}

	if err := viper.Unmarshal(&settings); err != nil {
		configErr = fmt.Errorf("decoding settings: %w", err)
		return
	}
	configErr = settings.Validate()
}

func runEditor(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	log, err := newLogger(settings.LogFile)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer func() { _ = log.Sync() }()

	var catalog *format.Catalog
	if settings.Formats != "" {
		catalog, err = format.Load(settings.Formats, log)
		if err != nil {
			return fmt.Errorf("loading formats: %w", err)
		}
		log.Info("formats loaded",
			zap.String("path", settings.Formats),
			zap.Strings("formats", catalog.AllFormatNames()),
			zap.Int("warnings", len(catalog.Warnings())))
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini() // Useful for handling panics

	theme := settings.BuildTheme()
	e := &editor{
		screen: s,
		edit:   ui.NewTextEdit(s, catalog, settings.TabWidth, &theme),
		clip:   NewClipboard(log),
		log:    log,
	}

	if len(args) == 1 {
		if err := e.open(args[0]); err != nil {
			return err
		}
	}

	if settings.Watch && settings.Formats != "" {
		w, err := format.NewWatcher(settings.Formats, format.DefaultDebounce, log)
		if err != nil {
			return fmt.Errorf("watching formats: %w", err)
		}
		// The catalog is handed to the event loop, which is the only writer.
		if err := w.Start(func(c *format.Catalog) { _ = s.PostEvent(tcell.NewEventInterrupt(c)) }); err != nil {
			return fmt.Errorf("watching formats: %w", err)
		}
		defer func() { _ = w.Stop() }()
	}

	e.run()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "qide: %v\n", err)
		os.Exit(1)
	}
}
