package commands

import (
	"fmt"
	"os"

	"github.com/smejjout/ubidl/internal/config"
	"github.com/smejjout/ubidl/internal/fetch"
	"github.com/smejjout/ubidl/internal/ffmpeg"
	"github.com/smejjout/ubidl/internal/hls"
	"github.com/smejjout/ubidl/internal/logging"
	"github.com/smejjout/ubidl/pkg/ubicast"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Root is the downloader command itself. Flags override the config
// file and the environment.
type Root struct {
	configFile string
	logLevel   string
	logFile    string
	outputDir  string
	container  string
	trackName  string
	audioIndex int
	transcode  bool
	keep       bool
	quiet      bool

	cfg       *config.Config
	client    *ubicast.Client
	fetcher   *fetch.Fetcher
	selector  *hls.Selector
	converter *ffmpeg.Converter
}

func NewRoot() *Root {
	return &Root{}
}

func (r *Root) Name() string {
	return "ubidl"
}

// Command builds the cobra tree. Configuration is loaded in the
// persistent pre-run so every subcommand sees the same setup.
func (r *Root) Command(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   r.Name() + " <link> [<link> ...]",
		Short: "Download media from a Ubicast server",
		Long: `Download media from a Ubicast server.

Links may be permalinks, video page links or bare media oids. Each
link is resolved through the server's API, downloaded and handed to
ffmpeg for the final container. Links are processed one at a time and
a failing link never stops the rest.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: r.setup,
		RunE:              r.run,
	}
	cmd.PersistentFlags().StringVarP(&r.configFile, "config", "c", config.DefaultFile, "configuration file")
	cmd.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "override the configured log level")
	cmd.PersistentFlags().StringVar(&r.logFile, "log-file", "", "override the configured log file")
	flags := cmd.Flags()
	flags.StringVarP(&r.outputDir, "out", "o", "", "directory downloads land in")
	flags.StringVar(&r.container, "container", "", "container of the final file")
	flags.StringVarP(&r.trackName, "track", "t", "", "video track name, defaults to the highest quality")
	flags.IntVar(&r.audioIndex, "audio", 0, "audio track index, -1 disables separate audio")
	flags.BoolVar(&r.transcode, "transcode", false, "re-encode to H.264/AAC instead of copying streams")
	flags.BoolVarP(&r.keep, "keep", "k", false, "keep intermediate downloads after conversion")
	flags.BoolVarP(&r.quiet, "quiet", "q", false, "disable the download progress bar")
	cmd.AddCommand(newInfoCommand(r))
	return cmd
}

func (r *Root) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Open(r.configFile)
	if err != nil {
		return err
	}
	// Flags beat both the file and the environment.
	if r.outputDir != "" {
		cfg.OutputDirectory = r.outputDir
	}
	if r.container != "" {
		cfg.Container = r.container
	}
	if r.keep {
		cfg.KeepSources = true
	}
	if r.logLevel != "" {
		cfg.LogLevel = r.logLevel
	}
	if r.logFile != "" {
		cfg.LogFile = r.logFile
	}
	if errs := cfg.Valid(); !errs.Ok() {
		return fmt.Errorf("invalid configuration:\n%s", errs.Error())
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	r.cfg = cfg
	r.client = ubicast.New(cfg.Server, cfg.APIKey,
		ubicast.WithTimeout(cfg.RequestTimeout()),
		ubicast.WithTLSVerification(cfg.Verify),
	)
	r.fetcher = fetch.New(
		fetch.WithTLSVerification(cfg.Verify),
		fetch.WithTimeout(cfg.RequestTimeout()),
		fetch.WithProgress(!r.quiet),
	)
	r.selector = hls.NewSelector(r.client.HTTPClient())
	var converterOptions []ffmpeg.Option
	if r.transcode {
		converterOptions = append(converterOptions, ffmpeg.WithTranscode())
	}
	r.converter = ffmpeg.New(converterOptions...)
	return nil
}

func (r *Root) run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}
	if stat, err := os.Stat(r.cfg.OutputDirectory); err != nil || !stat.IsDir() {
		return fmt.Errorf("output directory %q is not a directory", r.cfg.OutputDirectory)
	}
	ctx := cmd.Context()
	report := &Report{}
	for _, link := range args {
		if ctx.Err() != nil {
			break
		}
		result := r.processLink(ctx, link)
		if result.Failed() {
			zap.L().Error("Link failed",
				zap.String("link", link),
				zap.String("stage", string(result.Stage)),
				zap.Error(result.Err),
			)
			fmt.Fprintf(cmd.ErrOrStderr(), "error processing %s: %v\n", link, result.Err)
		}
		report.Add(result)
	}
	report.Render(cmd.OutOrStdout())
	if err := ctx.Err(); err != nil {
		return err
	}
	if failures := report.Failures(); failures > 0 {
		return fmt.Errorf("%d of %d links failed", failures, len(args))
	}
	return nil
}
