// Package cli implements the smartjournal commands.
package cli

import (
	"fmt"

	"github.com/smartjournal/internal/config"
	"github.com/smartjournal/internal/logging"
	"github.com/spf13/cobra"
)

var envDir string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "smartjournal",
	Short:         "Journaling backend with LLM emotion analysis",
	Long:          "Journal entries in, emotion analysis and coping activity suggestions out.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "Directory holding an optional .env file")
}

// loadConfig 读取配置并初始化全局日志器。
func loadConfig() (config.AppConfig, error) {
	cfg, err := config.Load(envDir)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	if _, err := logging.Init(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return config.AppConfig{}, fmt.Errorf("init logger: %w", err)
	}
	return cfg, nil
}
