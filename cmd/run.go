package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spigell/ats-screener/internal/ai"
	"github.com/spigell/ats-screener/internal/ai/gemini"
	"github.com/spigell/ats-screener/internal/evaluation"
	"github.com/spigell/ats-screener/internal/extract"
	"github.com/spigell/ats-screener/internal/jobs"
	applog "github.com/spigell/ats-screener/internal/logger"
	"github.com/spigell/ats-screener/internal/matches"
	"github.com/spigell/ats-screener/internal/openai"
	"github.com/spigell/ats-screener/internal/ranking"
	"github.com/spigell/ats-screener/internal/report"
	"github.com/spigell/ats-screener/internal/secrets"
	"github.com/spigell/ats-screener/internal/storage"
	"github.com/spigell/ats-screener/internal/validate"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var prompt = promptui.Select{
	Label: "Proceed with the evaluation?",
	Items: []string{PromptYes, PromptNo},
}

var runCmd = &cobra.Command{
	Use:   "run [resume files]",
	Short: "Evaluate resume files against job postings and write a ranked report",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("jobs-file", "J", "", "XLSX workbook with job postings, one per row")
	runCmd.Flags().StringP("jd-file", "D", "", "plain-text file with a single job description")
	runCmd.Flags().StringP("report", "r", "screening-report.xlsx", "path of the XLSX report to write")
	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before evaluating")
}

// run is the main command for the cli.
func run(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := applog.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the ats-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	candidates, err := loadCandidates(args)
	if err != nil {
		logger.Fatal("loading resume files", zap.Error(err))
	}

	logger.Info("loaded resume files", zap.Int("count", len(candidates)))

	postings, err := loadPostings(cmd)
	if err != nil {
		logger.Fatal("loading job postings",
			zap.Error(err),
			zap.String("hint", "pass either --jobs-file with an XLSX workbook or --jd-file with a job description"),
		)
	}

	logger.Info("loaded job postings", zap.Int("count", len(postings)))

	if cmd.Flag("auto-approve").Value.String() == "false" {
		logger.Info("about to evaluate",
			zap.Int("resumes", len(candidates)),
			zap.Int("jobs", len(postings)),
			zap.Int("evaluations", len(candidates)*len(postings)),
		)

		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai generator", zap.Error(err))
	}

	cache := evaluation.NewCache(config.Cache.Enabled, config.Cache.TTL())
	evaluator := evaluation.NewEvaluator(generator, cache, logger)
	engine := ranking.NewEngine(evaluator, logger, config.Screening.Concurrency)

	started := time.Now()
	batch, err := engine.EvaluateBatch(ctx, candidates, postings)
	if err != nil {
		logger.Fatal("evaluating batch", zap.Error(err))
	}

	logger.Info("evaluation finished",
		zap.Duration("took", time.Since(started)),
		zap.Int("jobs_with_winner", batch.Summary.ValidResults),
		zap.Float64("average_score", batch.Summary.AverageScore),
		zap.Float64("highest_score", batch.Summary.HighestScore),
		zap.Float64("lowest_score", batch.Summary.LowestScore),
	)

	recordMatches(batch, args, config, logger)

	reportPath := cmd.Flag("report").Value.String()
	if err := report.Write(batch, reportPath); err != nil {
		logger.Fatal("writing report", zap.Error(err))
	}

	logger.Info("report written", zap.String("filename", reportPath))
}

// loadCandidates validates and extracts text from the resume files given as
// arguments.
func loadCandidates(paths []string) ([]ranking.Candidate, error) {
	if err := validate.FileCount(len(paths)); err != nil {
		return nil, err
	}

	candidates := make([]ranking.Candidate, 0, len(paths))
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat resume file: %w", err)
		}

		if err := validate.File(info.Name(), info.Size()); err != nil {
			return nil, err
		}

		text, err := extract.FromFile(path)
		if err != nil {
			return nil, err
		}

		if err := validate.Text(text, "resume "+info.Name(), true); err != nil {
			return nil, err
		}

		candidates = append(candidates, ranking.Candidate{
			Name: info.Name(),
			Text: text,
		})
	}

	return candidates, nil
}

// loadPostings reads job postings from the workbook or the single
// description file, whichever flag is set.
func loadPostings(cmd *cobra.Command) ([]jobs.Posting, error) {
	jobsFile := cmd.Flag("jobs-file").Value.String()
	jdFile := cmd.Flag("jd-file").Value.String()

	switch {
	case jobsFile != "" && jdFile != "":
		return nil, fmt.Errorf("--jobs-file and --jd-file are mutually exclusive")
	case jobsFile != "":
		return jobs.ReadWorkbook(jobsFile)
	case jdFile != "":
		data, err := os.ReadFile(jdFile)
		if err != nil {
			return nil, fmt.Errorf("read job description file: %w", err)
		}
		description := string(data)
		if err := validate.Text(description, "job description", true); err != nil {
			return nil, err
		}
		return []jobs.Posting{{Description: description}}, nil
	default:
		return nil, fmt.Errorf("no job postings source given")
	}
}

func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))

	switch provider {
	case "", "openai":
		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: cfg.OpenAI.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file or OPENAI_API_KEY_FILE)", err)
		}

		genLogger := applog.WithCommonFields(logger, "openai", cfg.OpenAI.Model)

		return openai.NewClient(openai.Config{
			APIKey:      apiKey,
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			MaxTokens:   cfg.OpenAI.MaxTokens,
			Timeout:     time.Duration(cfg.OpenAI.TimeoutSeconds) * time.Second,
			Attempts:    cfg.OpenAI.Attempts,
			Endpoint:    cfg.OpenAI.Endpoint,
		}, genLogger), nil
	case "gemini":
		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: cfg.Gemini.APIKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
		}

		genLogger := applog.WithCommonFields(logger, "gemini", cfg.Gemini.Model).
			With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

		return gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// recordMatches indexes the batch results and, when a storage directory is
// configured, archives the winning resume files under stable ids.
func recordMatches(batch *ranking.BatchReport, resumePaths []string, config *Config, logger *zap.Logger) {
	manager := matches.NewManager()

	pathByName := make(map[string]string, len(resumePaths))
	for _, path := range resumePaths {
		pathByName[filepath.Base(path)] = path
	}

	var store *storage.Store
	if config.Storage.Dir != "" {
		var err error
		store, err = storage.New(config.Storage.Dir)
		if err != nil {
			logger.Warn("skipping resume archiving", zap.Error(err))
		}
	}

	for _, jobReport := range batch.Jobs {
		jobKey := jobKeyFor(jobReport)

		for _, result := range jobReport.OtherMatches {
			manager.Record(&matches.Match{
				CandidateName: result.CandidateName,
				JobKey:        jobKey,
				Record:        result.Record,
			})
		}

		best := jobReport.BestMatch
		if best == nil {
			continue
		}

		match := &matches.Match{
			CandidateName: best.CandidateName,
			JobKey:        jobKey,
			Record:        best.Record,
		}

		if store != nil {
			if id, err := archiveResume(store, pathByName[best.CandidateName], best.Record.NewResumeName); err != nil {
				logger.Warn("archiving winning resume",
					zap.String("candidate", best.CandidateName),
					zap.Error(err),
				)
			} else {
				match.StoredFileID = id
			}
		}

		manager.Record(match)

		logger.Info("best match",
			zap.String("job", jobKey),
			zap.String("candidate", best.CandidateName),
			zap.Float64("score", best.Record.ATSScore),
			zap.String("status", best.Record.MatchStatus),
			zap.String("new_resume_name", best.Record.NewResumeName),
		)
	}

	stats := manager.Statistics()
	logger.Info("match statistics",
		zap.Int("total", stats.Total),
		zap.Int("matched", stats.Matched),
		zap.Int("unmatched", stats.Unmatched),
		zap.Float64("average_score", stats.AverageScore),
	)
}

func archiveResume(store *storage.Store, resumePath, newName string) (string, error) {
	if resumePath == "" {
		return "", fmt.Errorf("resume path unknown")
	}

	data, err := os.ReadFile(resumePath)
	if err != nil {
		return "", fmt.Errorf("read winning resume: %w", err)
	}

	name := resumePath
	if newName != "" {
		name = newName + filepath.Ext(resumePath)
	}

	return store.Save(name, data)
}

func jobKeyFor(jobReport *ranking.JobReport) string {
	company := jobReport.Job.CompanyName
	role := jobReport.Job.RoleName
	if company == "" && role == "" {
		return fmt.Sprintf("job-%d", jobReport.JobIndex+1)
	}
	return strings.TrimSpace(company + " / " + role)
}
