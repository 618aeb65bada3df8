package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .datachat.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to datachat! Let's configure your backend.")
	fmt.Println()

	// 1. Quality tier.
	qualityPrompt := promptui.Select{
		Label: "Select quality tier",
		Items: []string{
			"lite   - fast & cheap (gpt-4o-mini)",
			"normal - balanced (gpt-4o)",
			"max    - highest quality (gpt-4)",
		},
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	quality := tiers[qualityIdx]
	preset := GetPreset(quality)

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Directory for uploads, datasets and indexes",
		Default: "data",
	}
	dataDir, err := dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Listen port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP listen port",
		Default: "8000",
		Validate: func(s string) error {
			p, err := strconv.Atoi(s)
			if err != nil || p <= 0 || p > 65535 {
				return fmt.Errorf("invalid port")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("listen port: %w", err)
	}
	port, _ := strconv.Atoi(portStr)

	cfg := DefaultConfig()
	cfg.Quality = quality
	cfg.Model = preset.Model
	cfg.EmbeddingModel = preset.EmbeddingModel
	cfg.Server.Port = port
	cfg.Paths.DataDir = dataDir
	cfg.Paths.applyDerived()

	if os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Println("\nNote: Set OPENAI_API_KEY in your environment (or a .env file) before serving.")
	}

	configPath := ".datachat.yml"
	if err := cfg.Save(configPath); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	return cfg, nil
}
