package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eliteGoblin/focusd/secsim/internal/domain"
	"github.com/eliteGoblin/focusd/secsim/internal/infra"
	"github.com/eliteGoblin/focusd/secsim/internal/profile"
)

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements",
	Long:  `Shows every achievement a trainee can unlock and what unlocks it.`,
	RunE:  runAchievements,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List scan profiles",
	Long:  `Shows the built-in scan profiles with their length, file count and threat chance.`,
	RunE:  runProfiles,
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check device performance and health",
	Long:  `Inspects storage, memory, uptime and running apps on this host. Informational only.`,
	RunE:  runHealth,
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List archived evaluation reports",
	Long:  `Shows the most recent reports stored by the "archive" report sink.`,
	RunE:  runReports,
}

var reportsLimit int

func init() {
	reportsCmd.Flags().IntVar(&reportsLimit, "limit", 20, "Number of reports to show (0 for all)")
}

func runAchievements(cmd *cobra.Command, args []string) error {
	fmt.Println("\n=== Achievements ===")
	for _, a := range domain.Catalog() {
		fmt.Printf("\n[%s] %s\n", a.Key, a.Name)
		fmt.Printf("  %s\n", a.Description)
	}
	fmt.Println("\n====================")
	return nil
}

func runProfiles(cmd *cobra.Command, args []string) error {
	registry := profile.NewRegistry()

	fmt.Println("\n=== Scan Profiles ===")
	for _, p := range registry.GetAll() {
		fmt.Printf("\n[%s] %s\n", p.ID(), p.Name())
		fmt.Printf("  Ticks: %d\n", p.Ticks())
		fmt.Printf("  Files: %d\n", p.FileCount())
		fmt.Printf("  Threat chance: %.0f%%\n", p.ThreatChance()*100)
		fmt.Printf("  Targets: %d paths\n", len(p.Targets()))
	}
	fmt.Println("\n=====================")
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	checker := infra.NewHostHealthChecker(infra.DefaultHealthThresholds())
	health, err := checker.Check(ctx)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Device performance & health ===")
	for _, item := range health.Items {
		fmt.Printf("\n%s: %s\n", item.Name, item.Status)
		if item.Detail != "" {
			fmt.Printf("  %s\n", item.Detail)
		}
	}
	fmt.Printf("\nChecked at %s\n", health.CheckedAt.Format(time.RFC3339))
	fmt.Println("===================================")
	return nil
}

func runReports(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	archive, err := infra.OpenArchive(cfg.Report.ArchiveDir)
	if err != nil {
		return err
	}
	defer archive.Close()

	reports, err := archive.List(cmd.Context(), reportsLimit)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Evaluation Reports (%s) ===\n", archive.Path())
	if len(reports) == 0 {
		fmt.Println("\nNo reports archived yet.")
	}
	for _, r := range reports {
		fmt.Printf("\n%s  session %s\n", r.Timestamp, r.SessionID)
		fmt.Printf("  Score: %d/%d (%d of %d tasks)\n", r.Score, r.MaxScore, r.TasksCompleted, r.TotalTasks)
		fmt.Printf("  %s\n", r.Details)
	}
	fmt.Println("\n===============================")
	return nil
}
