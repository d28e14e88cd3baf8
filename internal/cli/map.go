package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/protmap/idremap/internal/artifact"
	"github.com/protmap/idremap/internal/config"
	"github.com/protmap/idremap/internal/engine"
	"github.com/protmap/idremap/internal/engine/cache"
	"github.com/protmap/idremap/internal/idlist"
	"github.com/protmap/idremap/internal/logging"
	"github.com/protmap/idremap/internal/uniprot"
	"github.com/protmap/idremap/pkg/version"
)

// mapFlags holds the flag values of the map command.
type mapFlags struct {
	input        string
	from         string
	to           string
	output       string
	email        string
	outputFormat string
	chunkSize    int
	sleep        time.Duration
	retries      int
	timeout      time.Duration
	parallel     int
	noCache      bool
	strict       bool
}

// newMapCmd creates the map command: read identifiers, run the batched
// mapping job, and write the concatenated responses to the output path.
func newMapCmd(state *appState) *cobra.Command {
	var flags mapFlags

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map an identifier list to another namespace",
		Long: `Reads a newline-delimited identifier list, submits it to the mapping
service in fixed-size chunks with retries, and writes the concatenated raw
responses to the output path. Chunks that keep failing are reported and
skipped; the artifact is written from the chunks that succeeded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMap(cmd, state, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "file listing identifiers to remap, one per line")
	cmd.Flags().StringVarP(&flags.from, "from", "f", "", "source namespace abbreviation")
	cmd.Flags().StringVarP(&flags.to, "to", "t", "", "target namespace abbreviation")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "path of the mapping artifact to write")
	cmd.Flags().StringVarP(&flags.email, "email", "e", "", "contact e-mail attached to requests per service policy")
	cmd.Flags().StringVarP(&flags.outputFormat, "output-format", "m", "", "response format to request (default tab)")
	cmd.Flags().IntVarP(&flags.chunkSize, "chunk-size", "c", 0, "identifiers per request (default 1000)")
	cmd.Flags().DurationVarP(&flags.sleep, "sleep", "s", 0, "pause between attempts and between chunks (default 5s)")
	cmd.Flags().IntVarP(&flags.retries, "retries", "r", 0, "retries per chunk before giving up (default 10)")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "per-request timeout (default 60s)")
	cmd.Flags().IntVar(&flags.parallel, "parallel", 0, "chunks mapped concurrently (default 1)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "bypass the response cache")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero when any chunk fails")

	for _, name := range []string{"input", "from", "to", "output"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

// runMap executes a mapping job from parsed flags and loaded config.
func runMap(cmd *cobra.Command, state *appState, flags mapFlags) error {
	ctx := cmd.Context()
	log := logging.ComponentLogger(logging.FromContext(ctx), "cli")
	cfg := state.cfg

	jobCfg := cfg.Job
	if flags.email != "" {
		jobCfg.ContactEmail = flags.email
	}
	if cmd.Flags().Changed("output-format") {
		jobCfg.OutputFormat = flags.outputFormat
	}
	if cmd.Flags().Changed("chunk-size") {
		jobCfg.ChunkSize = flags.chunkSize
	}
	if cmd.Flags().Changed("sleep") {
		jobCfg.SleepInterval = config.Duration(flags.sleep)
	}
	if cmd.Flags().Changed("retries") {
		jobCfg.MaxRetries = flags.retries
	}
	if cmd.Flags().Changed("parallel") {
		jobCfg.Parallel = flags.parallel
	}

	serviceCfg := cfg.Service
	if cmd.Flags().Changed("timeout") {
		serviceCfg.RequestTimeout = config.Duration(flags.timeout)
	}

	ids, err := idlist.ReadFile(flags.input)
	if err != nil {
		return err
	}
	log.Info().Int("identifiers", len(ids)).Str("input", flags.input).Msg("read identifier list")

	client := uniprot.NewClient(uniprot.ClientOptions{
		BaseURL:      serviceCfg.BaseURL,
		ContactEmail: jobCfg.ContactEmail,
		UserAgent:    "idremap/" + version.GetVersion(),
		Timeout:      serviceCfg.RequestTimeout.Std(),
	})

	var opts []engine.Option
	if cfg.Cache.Enabled && !flags.noCache {
		store, cacheErr := cache.NewFileStore(cfg.Cache.Directory, cfg.Cache.TTL.Std())
		if cacheErr != nil {
			log.Warn().Err(cacheErr).Msg("response cache unavailable, continuing without it")
		} else {
			opts = append(opts, engine.WithCache(store))
		}
	}

	driver, err := engine.NewDriver(client, flags.from, flags.to, jobCfg, opts...)
	if err != nil {
		return err
	}

	result, err := driver.Run(ctx, ids)
	if err != nil {
		return err
	}

	if writeErr := artifact.Write(flags.output, artifact.Assemble(result)); writeErr != nil {
		return writeErr
	}

	failures := result.Failures()
	for _, chunk := range failures {
		cmd.PrintErrf("Warning: chunk %d (%d identifiers) was not mapped: %s\n",
			chunk.Index, chunk.Size, chunk.Reason)
	}

	outPath := flags.output
	if abs, absErr := filepath.Abs(outPath); absErr == nil {
		outPath = abs
	}
	cmd.Printf("Created mapping file from %s to %s in: %s\n", flags.from, flags.to, outPath)

	if len(failures) > 0 {
		cmd.PrintErrln("Warning: not all identifiers were mapped. Please try again later.")
		if flags.strict {
			return fmt.Errorf("%d of %d chunks failed", len(failures), len(result.Chunks))
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.New("mapping job canceled")
	}
	return nil
}
