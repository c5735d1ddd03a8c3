// Command seed loads operators and intake data into the database.
//
//	seed operator -username head.reviewer -role manager -name "Head Reviewer"
//	seed applications -file intake.xlsx [-dry-run]
//	seed smoke -username head.reviewer
//
// The operator password is read from LOANDESK_SEED_PASSWORD. smoke logs in against the
// running API at LOANDESK_API_BASE_URL and reads the dashboard summary.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"loandesk/internal/config"
	"loandesk/internal/csvexport"
	"loandesk/internal/domain"
	"loandesk/internal/logger"
	"loandesk/internal/port"
	"loandesk/internal/repository/postgres"
	"loandesk/pkg/client"
)

const usage = "Usage: seed [operator|applications|smoke] [flags]"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if err := run(context.Background(), cfg, os.Args[1], os.Args[2:], log); err != nil {
		log.Fatal("seed failed", zap.String("command", os.Args[1]), zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, cmd string, args []string, log *zap.Logger) error {
	switch cmd {
	case "operator":
		fs := flag.NewFlagSet("operator", flag.ExitOnError)
		username := fs.String("username", "", "operator username")
		name := fs.String("name", "", "full name")
		role := fs.String("role", string(domain.RoleInspector), "inspector, supervisor or manager")
		_ = fs.Parse(args)

		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		op, err := seedOperator(ctx, postgres.NewOperatorRepo(db), *username, *name, domain.UserRole(*role), os.Getenv("LOANDESK_SEED_PASSWORD"))
		if err != nil {
			return err
		}
		log.Info("operator created", zap.String("username", op.Username), zap.String("role", string(op.Role)))
		return nil

	case "applications":
		fs := flag.NewFlagSet("applications", flag.ExitOnError)
		file := fs.String("file", "", "intake workbook (.xlsx)")
		dryRun := fs.Bool("dry-run", false, "parse the workbook without writing")
		_ = fs.Parse(args)
		if *file == "" {
			return errors.New("-file is required")
		}

		f, err := os.Open(*file)
		if err != nil {
			return fmt.Errorf("open workbook: %w", err)
		}
		defer f.Close()
		imported, err := csvexport.ReadApplicationsXLSX(f)
		if err != nil {
			return err
		}
		if *dryRun {
			log.Info("workbook parsed", zap.Int("applications", len(imported)))
			return nil
		}

		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		apps, docs, err := seedApplications(ctx, postgres.NewApplicationRepo(db), postgres.NewDocumentRepo(db), imported, cfg.S3.Bucket)
		if err != nil {
			return err
		}
		log.Info("applications imported", zap.Int("applications", apps), zap.Int("documents", docs))
		return nil

	case "smoke":
		fs := flag.NewFlagSet("smoke", flag.ExitOnError)
		username := fs.String("username", "", "operator username")
		_ = fs.Parse(args)

		c := client.New(client.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})
		stats, err := smoke(ctx, c, *username, os.Getenv("LOANDESK_SEED_PASSWORD"))
		if err != nil {
			return err
		}
		log.Info("api reachable",
			zap.String("base_url", cfg.API.BaseURL),
			zap.Int("applications", stats.TotalApplications),
			zap.Int("documents_pending", stats.DocumentsPending),
			zap.Bool("stale", stats.Stale))
		return nil

	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func seedOperator(ctx context.Context, repo port.OperatorRepository, username, name string, role domain.UserRole, password string) (*domain.Operator, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("-username is required")
	}
	if !domain.ValidRoles[role] {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if len(password) < 8 {
		return nil, errors.New("LOANDESK_SEED_PASSWORD must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	op := &domain.Operator{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     name,
		Role:         role,
		IsActive:     true,
	}
	if err := repo.Create(ctx, op); err != nil {
		return nil, err
	}
	return op, nil
}

func seedApplications(ctx context.Context, appRepo port.ApplicationRepository, docRepo port.DocumentRepository, imported []csvexport.ImportedApplication, defaultBucket string) (int, int, error) {
	var apps, docs int
	for i := range imported {
		app := imported[i].Application
		if err := appRepo.Create(ctx, &app); err != nil {
			return apps, docs, fmt.Errorf("application %s: %w", app.ReferenceNo, err)
		}
		apps++
		for j := range imported[i].Documents {
			doc := imported[i].Documents[j]
			doc.ApplicationID = app.ID
			if doc.S3Bucket == "" {
				doc.S3Bucket = defaultBucket
			}
			if err := docRepo.Create(ctx, &doc); err != nil {
				return apps, docs, fmt.Errorf("application %s document %s: %w", app.ReferenceNo, doc.DocumentType, err)
			}
			docs++
		}
	}
	return apps, docs, nil
}

// smoke logs in, reads the stats summary and logs out again so the seeded operator's
// session slot is left free.
func smoke(ctx context.Context, c *client.Client, username, password string) (*domain.Stats, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("-username is required")
	}
	if _, err := c.Login(ctx, username, password); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	stats, err := c.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	if err := c.Logout(ctx); err != nil {
		return nil, fmt.Errorf("logout: %w", err)
	}
	return stats, nil
}
