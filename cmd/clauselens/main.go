// Copyright 2025 Veridian Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/urfave/cli/v2"

	clauselens "github.com/veridian/clauselens"
	"github.com/veridian/clauselens/core"
	"github.com/veridian/clauselens/ingestion"
	"github.com/veridian/clauselens/reanalyze"
)

func main() {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to the database directory",
		Required: true,
	}
	userFlag := &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "User id (defaults to the current session user)",
	}
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML configuration file",
	}

	app := &cli.App{
		Name:  "clauselens",
		Usage: "Legal document analysis for contracts, leases and agreements",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "Create a user (if needed) and make it the session user",
				ArgsUsage: "<user-id>",
				Action:    loginCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{Name: "name", Usage: "Display name for a newly created user"},
					&cli.StringFlag{Name: "email", Usage: "Email for a newly created user"},
				},
			},
			{
				Name:      "analyze",
				Usage:     "Upload and analyze one or more documents",
				ArgsUsage: "<file> [<file> ...]",
				Action:    analyzeCommand,
				Flags:     []cli.Flag{dbFlag, userFlag, configFlag},
			},
			{
				Name:   "list",
				Usage:  "List analyzed documents, most recent first",
				Action: listCommand,
				Flags:  []cli.Flag{dbFlag, userFlag},
			},
			{
				Name:      "show",
				Usage:     "Show the full analysis of one document",
				ArgsUsage: "<document-id>",
				Action:    showCommand,
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:   "recent",
				Usage:  "Show the recent-analysis cache",
				Action: recentCommand,
				Flags:  []cli.Flag{dbFlag},
			},
			{
				Name:   "clear-recent",
				Usage:  "Empty the recent-analysis cache",
				Action: clearRecentCommand,
				Flags:  []cli.Flag{dbFlag},
			},
			{
				Name:      "ask",
				Usage:     "Ask a question about one clause of a document",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					dbFlag, configFlag,
					&cli.StringFlag{Name: "doc", Usage: "Document id", Required: true},
					&cli.StringFlag{Name: "clause", Usage: "Clause id", Required: true},
				},
			},
			{
				Name:      "chat",
				Usage:     "Chat with the assistant, optionally grounded in a document",
				ArgsUsage: "<message>",
				Action:    chatCommand,
				Flags: []cli.Flag{
					dbFlag, configFlag,
					&cli.StringFlag{Name: "doc", Usage: "Document id to cite (optional)"},
				},
			},
			{
				Name:      "compare",
				Usage:     "Compare two or more analyzed documents",
				ArgsUsage: "<document-id> <document-id> [...]",
				Action:    compareCommand,
				Flags:     []cli.Flag{dbFlag, configFlag},
			},
			{
				Name:   "reanalyze",
				Usage:  "Re-run analysis over every stored document of a user",
				Action: reanalyzeCommand,
				Flags: []cli.Flag{
					dbFlag, userFlag, configFlag,
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed analyses",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openDatabase builds the Database handle from flags and the optional
// config file.
func openDatabase(c *cli.Context) (*clauselens.Database, error) {
	var opts []clauselens.DatabaseOption

	if path := c.String("config"); path != "" {
		cfg, err := loadFileConfig(path)
		if err != nil {
			return nil, err
		}
		aiCfg := cfg.toAIConfig()
		if err := aiCfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		opts = append(opts, clauselens.WithAIConfig(aiCfg))
		if cfg.Database.QuotaBytes > 0 {
			opts = append(opts, clauselens.WithStorageQuota(cfg.Database.QuotaBytes))
		}
	}

	return clauselens.NewDatabase(c.String("db"), opts...)
}

// resolveUser returns the --user flag value or falls back to the
// session user.
func resolveUser(c *cli.Context, db *clauselens.Database) (string, error) {
	if userID := c.String("user"); userID != "" {
		return userID, nil
	}

	userID, err := db.UserRepository().CurrentUser(c.Context)
	if err != nil {
		return "", err
	}
	if userID == "" {
		return "", fmt.Errorf("no user: pass --user or run login first")
	}
	return userID, nil
}

func loginCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one user id")
	}
	userID := c.Args().First()

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := c.Context
	repo := db.UserRepository()

	if _, err := repo.GetUser(ctx, userID); err != nil {
		user := &core.User{
			Id:        userID,
			Name:      c.String("name"),
			Email:     c.String("email"),
			CreatedAt: time.Now().UTC(),
		}
		if err := repo.PutUser(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		fmt.Printf("Created user %s\n", userID)
	}

	if err := repo.SetCurrentUser(ctx, userID); err != nil {
		return err
	}
	fmt.Printf("Session user is now %s\n", userID)
	return nil
}

func analyzeCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no files given")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	userID, err := resolveUser(c, db)
	if err != nil {
		return err
	}

	files := make([]ingestion.FileInput, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		file, err := readFileInput(path)
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	pipeline, err := db.NewIngestionPipeline(userID)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	accepted, rejected := pipeline.Submit(files...)
	for _, rej := range rejected {
		fmt.Fprintf(os.Stderr, "rejected %s: %v\n", rej.Name, rej.Err)
	}
	if len(accepted) == 0 {
		return fmt.Errorf("no files accepted")
	}

	fmt.Fprintf(os.Stderr, "Analyzing %d file(s)...\n", len(accepted))

	result, err := pipeline.AnalyzeAll(context.Background())
	if err != nil {
		return err
	}

	for _, item := range result.Items {
		switch item.Status {
		case ingestion.StatusSuccess:
			fmt.Printf("%-30s %s  risk=%s score=%d  id=%s\n",
				item.Name, item.Status, item.Document.Analysis.OverallRisk,
				item.Document.Analysis.RiskScore, item.Document.Id)
		case ingestion.StatusError:
			fmt.Printf("%-30s %s  %v\n", item.Name, item.Status, item.Err)
		default:
			fmt.Printf("%-30s %s\n", item.Name, item.Status)
		}
	}

	if result.Navigate != nil {
		fmt.Printf("\nView the analysis with: clauselens show --db %s %s\n",
			c.String("db"), result.Navigate.Id)
	}
	return nil
}

// readFileInput loads a file from disk, detecting its media type from
// content rather than trusting the extension.
func readFileInput(path string) (ingestion.FileInput, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ingestion.FileInput{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	mtype := mimetype.Detect(content)
	mediaType := mtype.String()
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}

	return ingestion.FileInput{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Content:   content,
	}, nil
}

func listCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	userID, err := resolveUser(c, db)
	if err != nil {
		return err
	}

	docs, err := db.DocumentRepository().GetDocumentsByUser(c.Context, userID)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents.")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %-30s %-8s score=%-3d  %s\n",
			doc.UploadedAt.Local().Format("2006-01-02 15:04"),
			doc.Name, doc.Analysis.OverallRisk, doc.Analysis.RiskScore, doc.Id)
	}
	return nil
}

func showCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document id")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	doc, err := db.DocumentRepository().GetDocument(c.Context, c.Args().First())
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", doc.Name, doc.Id)
	fmt.Printf("Uploaded: %s\n", doc.UploadedAt.Local().Format(time.RFC1123))
	fmt.Printf("Overall risk: %s (score %d)\n\n", doc.Analysis.OverallRisk, doc.Analysis.RiskScore)
	fmt.Printf("%s\n", doc.Analysis.Summary)

	for _, clause := range doc.Analysis.Clauses {
		fmt.Printf("\n[%s] %s risk\n", clause.Id, clause.RiskLevel)
		fmt.Printf("  %s\n", clause.Text)
		if clause.Explanation != "" {
			fmt.Printf("  %s\n", clause.Explanation)
		}
		if len(clause.RiskyKeywords) > 0 {
			fmt.Printf("  Keywords: %s\n", strings.Join(clause.RiskyKeywords, ", "))
		}
		for _, qa := range clause.Conversation {
			fmt.Printf("  Q: %s\n  A: %s\n", qa.Question, qa.Answer)
		}
	}
	return nil
}

func recentCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	entries, err := db.RecentRepository().ListRecent(c.Context)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No recent analyses.")
		return nil
	}

	for _, entry := range entries {
		fmt.Printf("%s  %-30s score=%-3d %-10s %s\n",
			entry.CreatedAt.Local().Format("2006-01-02 15:04"),
			entry.Name, entry.RiskScore, entry.Source, entry.Id)
	}
	return nil
}

func clearRecentCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RecentRepository().ClearRecent(c.Context); err != nil {
		return err
	}
	fmt.Println("Recent analyses cleared.")
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one question")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	consultant, err := db.NewConsultant()
	if err != nil {
		return err
	}

	_, qa, err := consultant.Ask(c.Context, c.String("doc"), c.String("clause"), c.Args().First())
	if err != nil {
		return err
	}

	fmt.Println(qa.Answer)
	return nil
}

func chatCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one message")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	consultant, err := db.NewConsultant()
	if err != nil {
		return err
	}

	reply, err := consultant.Chat(c.Context, c.String("doc"), nil, c.Args().First())
	if err != nil {
		return err
	}

	fmt.Println(reply)
	return nil
}

func compareCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("expected at least two document ids")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	consultant, err := db.NewConsultant()
	if err != nil {
		return err
	}

	result, err := consultant.Compare(c.Context, c.Args().Slice()...)
	if err != nil {
		return err
	}

	fmt.Printf("Recommended: %s\n\n%s\n", result.RecommendedId, result.Reasoning)
	if len(result.KeyDifferences) > 0 {
		fmt.Println("\nKey differences:")
		for _, diff := range result.KeyDifferences {
			fmt.Printf("  - %s\n", diff)
		}
	}
	return nil
}

func reanalyzeCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	userID, err := resolveUser(c, db)
	if err != nil {
		return err
	}

	config := &reanalyze.Config{
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	reanalyzer, err := db.NewReanalyzer(userID, config, os.Stderr)
	if err != nil {
		return err
	}

	if _, err := reanalyzer.Run(context.Background()); err != nil {
		return fmt.Errorf("reanalysis failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
