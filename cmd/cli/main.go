package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietacct/ledgerkit/internal/infrastructure/config"
	"github.com/vietacct/ledgerkit/internal/infrastructure/logger"
	"github.com/vietacct/ledgerkit/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
	userID  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgerkit-cli",
		Short: "LedgerKit CLI tool",
		Long:  `A command line interface for interacting with the LedgerKit API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the LedgerKit API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "cli", "User ID recorded on the audit trail")

	// Period commands
	periodCmd := &cobra.Command{
		Use:   "period",
		Short: "Fiscal period operations",
	}

	var lockLevel string
	lockCmd := &cobra.Command{
		Use:   "lock <period-id>",
		Short: "Close and lock a fiscal period",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			lockPeriod(args[0], lockLevel)
		},
	}
	lockCmd.Flags().StringVar(&lockLevel, "level", "MONTH_LOCKED", "Lock level to apply (MONTH_LOCKED, QUARTER_LOCKED, YEAR_LOCKED, FINALIZED)")

	unlockCmd := &cobra.Command{
		Use:   "unlock <period-id>",
		Short: "Reopen a locked fiscal period",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			unlockPeriod(args[0])
		},
	}

	periodCmd.AddCommand(lockCmd, unlockCmd)
	rootCmd.AddCommand(periodCmd)

	// Report commands
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Report operations",
	}

	trialBalanceCmd := &cobra.Command{
		Use:   "trial-balance <period-id>",
		Short: "Print the trial balance of a period",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			printReport(args[0], "trial-balance")
		},
	}

	reportCmd.AddCommand(trialBalanceCmd)
	rootCmd.AddCommand(reportCmd)

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration operations",
	}

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(false)
		},
	}

	migrateDownCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			runMigrations(true)
		},
	}

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func lockPeriod(periodID, lockLevel string) {
	body, _ := json.Marshal(map[string]string{"lock_level": lockLevel})
	result := doPost("/api/v1/periods/"+periodID+"/lock", body)

	fmt.Printf("Period locked\n")
	if period, ok := result["period"].(map[string]any); ok {
		fmt.Printf("Lock status: %s\n", period["lock_status"])
	}
	fmt.Printf("Locked vouchers: %v\n", result["locked_vouchers"])
	fmt.Printf("Snapshots: %v\n", result["snapshots"])
}

func unlockPeriod(periodID string) {
	result := doPost("/api/v1/periods/"+periodID+"/unlock", nil)

	fmt.Printf("Period unlocked\n")
	fmt.Printf("Lock status: %s\n", result["lock_status"])
}

func printReport(periodID, report string) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/reports/" + periodID + "/" + report)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

func runMigrations(down bool) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})

	if down {
		err = postgres.RunMigrationsDown(log, cfg.DatabaseURL, cfg.MigrationsPath)
	} else {
		err = postgres.RunMigrations(log, cfg.DatabaseURL, cfg.MigrationsPath)
	}
	if err != nil {
		fmt.Printf("Migration failed: %v\n", err)
		os.Exit(1)
	}
}

func doPost(path string, body []byte) map[string]any {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var result map[string]any
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	return result
}
