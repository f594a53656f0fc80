package gcm

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Pipeline sequences one clustering run: stage the input into a scratch
// workspace, run the external formatter, preparation script and clustering
// binary against it, remap the result to the original node labels, then
// publish the result and tear the workspace down. The publish/teardown pair
// runs exactly once per run, on success and failure alike.
type Pipeline struct {
	cfg    *Config
	logger zerolog.Logger
}

func NewPipeline(cfg *Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, logger: logger}
}

// formattedNames derives the formatter's output names for a staged input:
// <stem>_formatted<ext> and <stem>_key<ext>.
func formattedNames(inputName string) (formatted, key string) {
	ext := filepath.Ext(inputName)
	stem := strings.TrimSuffix(inputName, ext)
	return stem + "_formatted" + ext, stem + "_key" + ext
}

// Run executes the pipeline for one input file. The returned error reflects
// the first stage failure, or a publish/cleanup failure when the stages
// themselves succeeded.
func (p *Pipeline) Run(ctx context.Context, inputFile string) (err error) {
	runID := uuid.NewString()
	logger := p.logger.With().Str("run_id", runID).Logger()

	ws, err := EnterWorkspace(p.cfg.ScratchDir, inputFile)
	if err != nil {
		logger.Error().Err(err).Msg("workspace setup failed")
		return err
	}
	logger.Info().Str("workspace", ws.Root).Str("input", inputFile).Msg("input staged")

	inputName := filepath.Base(ws.StagedInput)
	formattedName, keyName := formattedNames(inputName)

	defer func() {
		pubErr := ws.Publish(p.cfg.OutputDir, p.cfg.OutputFile, formattedName)
		switch {
		case pubErr == nil:
			logger.Info().
				Str("output", filepath.Join(p.cfg.OutputDir, p.cfg.OutputFile)).
				Msg("result published")
		case errors.Is(pubErr, ErrNoResult):
			logger.Error().Err(pubErr).Msg("no result to publish")
		default:
			logger.Error().Err(pubErr).Msg("publish failed")
		}
		if cleanErr := ws.Cleanup(); cleanErr != nil {
			logger.Error().Err(cleanErr).Str("workspace", ws.Root).Msg("workspace cleanup failed")
			if err == nil {
				err = cleanErr
			}
		}
		if err == nil {
			err = pubErr
		}
	}()

	runner := &Runner{Dir: ws.Root, Timeout: p.cfg.StepTimeout, Logger: logger}

	if err = runner.Run(ctx, Step{
		Name: "format",
		Path: p.cfg.Tools.Python,
		Args: []string{p.cfg.Tools.FormatScript, inputName, "--sep", p.cfg.Sep},
	}); err != nil {
		return err
	}
	if err = runner.Run(ctx, Step{
		Name:      "prepare",
		Path:      p.cfg.Tools.Shell,
		Args:      []string{p.cfg.Tools.WorkScript, formattedName},
		CheckExit: true,
	}); err != nil {
		return err
	}
	if err = runner.Run(ctx, Step{
		Name: "cluster",
		Path: p.cfg.Tools.Cluster,
		// The leading "2 5 2" positionals are protocol constants of the
		// clustering binary.
		Args: []string{
			"2", "5", "2",
			strconv.Itoa(p.cfg.Seed),
			strconv.FormatFloat(p.cfg.Chi, 'g', -1, 64),
			formattedName,
		},
		CheckExit: true,
	}); err != nil {
		return err
	}

	ks, err := LoadKeyStore(filepath.Join(ws.Root, keyName))
	if err != nil {
		logger.Error().Err(err).Msg("remap failed: key store unreadable")
		return err
	}
	if err = RemapAssignments(filepath.Join(ws.Root, resultPrefix+formattedName), ks); err != nil {
		logger.Error().Err(err).Msg("remap failed")
		return err
	}
	logger.Info().Int("nodes", ks.Len()).Msg("assignments remapped")
	return nil
}
