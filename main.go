package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"hrms_tui/internal"
	"hrms_tui/internal/attendance"
	"hrms_tui/internal/config"
	"hrms_tui/internal/hrms"
	"hrms_tui/internal/notify"
	"hrms_tui/internal/observability"
	"hrms_tui/internal/session"
	"hrms_tui/internal/spreadsheet"
)

const usage = `usage:
  hrms_tui                              start the attendance dashboard
  hrms_tui import <file>                create employees from a csv, xls or xlsx sheet
  hrms_tui export-attendance <file>     write your attendance history to an xlsx workbook`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	repo, err := session.NewRepository(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	client := hrms.NewClient(cfg.APIBaseURL,
		hrms.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		hrms.WithLogger(logger),
		hrms.WithMetrics(metrics),
	)

	if len(os.Args) > 1 {
		err := runCommand(os.Args[1:], client, repo, cfg)
		_ = repo.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if cfg.MetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddress, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Printf("metrics listener: %v", err)
			}
		}()
	}

	m := internal.NewModel(client, repo,
		internal.WithLogger(logger),
		internal.WithMetrics(metrics),
		internal.WithNotifier(notify.NewTerminal(os.Stderr, notify.ParsePermission(cfg.Notifications))),
		internal.WithRefreshInterval(cfg.RefreshInterval),
		internal.WithRequestTimeout(cfg.HTTPTimeout),
		internal.WithPageSize(cfg.HistoryPageSize),
	)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())

	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			p.Send(internal.MsgTick{})
		}
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func openLog(path string) (*log.Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "hrms_tui ", log.LstdFlags|log.Lmicroseconds), func() { _ = f.Close() }, nil
}

// runCommand handles the non-interactive subcommands. Both reuse the session
// stored by the last interactive login.
func runCommand(args []string, client *hrms.Client, repo *session.Repository, cfg config.Config) error {
	if len(args) != 2 {
		return errors.New(usage)
	}

	s, err := repo.LoadSession()
	if errors.Is(err, session.ErrNoSession) {
		return errors.New("not logged in, start hrms_tui and log in first")
	}
	if err != nil {
		return err
	}
	client.SetToken(s.Token)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch args[0] {
	case "import":
		return importEmployees(ctx, client, args[1])
	case "export-attendance":
		return exportAttendance(ctx, client, args[1], cfg.HistoryPageSize)
	}
	return errors.New(usage)
}

func importEmployees(ctx context.Context, client *hrms.Client, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := spreadsheet.ReadRows(f, path)
	if err != nil {
		return err
	}
	parsed, rejected, err := spreadsheet.ParseEmployees(rows)
	if err != nil {
		return err
	}
	for _, r := range rejected {
		fmt.Fprintf(os.Stderr, "skipped %v\n", r)
	}

	res, err := spreadsheet.Import(ctx, client, parsed)
	for _, r := range res.Failed {
		fmt.Fprintf(os.Stderr, "failed %v\n", r)
	}
	fmt.Printf("created %d of %d employees\n", len(res.Created), len(parsed)+len(rejected))
	if err != nil {
		return fmt.Errorf("import stopped: %s", hrms.UserMessage(err))
	}
	return nil
}

func exportAttendance(ctx context.Context, client *hrms.Client, path string, pageSize int) error {
	all, err := allAttendance(ctx, client, pageSize)
	if err != nil {
		return fmt.Errorf("load attendance: %s", hrms.UserMessage(err))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := spreadsheet.WriteAttendance(f, all, time.Local); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %d days to %s\n", len(all), path)
	return nil
}

// allAttendance walks every history page, newest first.
func allAttendance(ctx context.Context, client *hrms.Client, pageSize int) ([]attendance.Day, error) {
	var all []attendance.Day
	for offset := 0; ; offset += pageSize {
		page, err := client.MyAttendance(ctx, offset, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if !page.HasNext() || len(page.Records) == 0 {
			return all, nil
		}
	}
}
