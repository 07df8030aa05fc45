// Package main provides the CLI entry point for excelop-go.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/excelop/excelop-go/pkg/excelop"
	"github.com/excelop/excelop-go/pkg/excelop/plan"
)

var (
	planPath   string
	outputPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "excelop",
		Short: "Apply declarative operation plans to Excel files",
		Long: `excelop-go reads a JSON plan of tabular operations (filter, sort,
pivot, vlookup, charts, ...) and applies it to an Excel workbook.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	applyCmd := &cobra.Command{
		Use:   "apply [input.xlsx]",
		Short: "Apply a plan to a workbook and save the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runApply,
	}
	applyCmd.Flags().StringVarP(&planPath, "plan", "p", "", "Plan JSON file (required)")
	applyCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: <input>_processed_<timestamp>.xlsx)")
	applyCmd.MarkFlagRequired("plan")

	restoreCmd := &cobra.Command{
		Use:   "restore [input.xlsx]",
		Short: "Restore a workbook from its newest backup",
		Args:  cobra.ExactArgs(1),
		RunE:  runRestore,
	}

	rootCmd.AddCommand(applyCmd, restoreCmd)

	initConfig()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("output_dir", excelop.DefaultOptions().OutputDir)
	viper.SetDefault("backup.enabled", true)
	viper.SetDefault("backup.dir", excelop.DefaultOptions().BackupDir)
	viper.SetDefault("backup.keep", excelop.DefaultOptions().BackupKeep)

	viper.SetConfigName("excelop")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("EXCELOP")
	viper.AutomaticEnv()

	// Missing config file is fine; defaults and env apply.
	_ = viper.ReadInConfig()
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func options(log *zap.Logger) excelop.Options {
	opts := excelop.DefaultOptions()
	opts.EnableBackup = viper.GetBool("backup.enabled")
	opts.BackupDir = viper.GetString("backup.dir")
	opts.BackupKeep = viper.GetInt("backup.keep")
	opts.OutputDir = viper.GetString("output_dir")
	opts.Logger = log
	return opts
}

func runApply(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	data, err := os.ReadFile(planPath)
	if err != nil {
		return fmt.Errorf("read plan: %w", err)
	}
	p, err := plan.Parse(data, log)
	if err != nil {
		return fmt.Errorf("parse plan: %w", err)
	}
	if len(p.Operations) == 0 {
		return fmt.Errorf("plan contains no supported operations")
	}

	exec, err := excelop.New(args[0], options(log))
	if err != nil {
		return err
	}
	defer exec.Close()

	saved, err := exec.ExecutePlan(context.Background(), p, outputPath)
	for _, line := range exec.Log() {
		fmt.Println(line)
	}
	if err != nil {
		return err
	}
	fmt.Printf("done: %s\n", saved)
	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	opts := options(log)
	restored, err := excelop.RestoreLatest(args[0], opts)
	if err != nil {
		return err
	}
	fmt.Printf("restored %s from %s\n", args[0], restored)
	return nil
}
