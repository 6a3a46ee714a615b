package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to cdpassist! Let's configure your assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Knowledge files.
	knowledgePrompt := promptui.Prompt{
		Label:   "Knowledge files (comma-separated globs, blank for the built-in knowledge base)",
		Default: "",
	}
	knowledgeStr, err := knowledgePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("knowledge files: %w", err)
	}
	cfg.KnowledgeFiles = splitAndTrim(knowledgeStr)

	// 2. Data directory.
	dataPrompt := promptui.Prompt{
		Label:   "Data directory for the question backlog",
		Default: cfg.DataDir,
	}
	cfg.DataDir, err = dataPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}

	// 3. Thinking delay.
	delayPrompt := promptui.Prompt{
		Label:    "Thinking delay before replies",
		Default:  cfg.ThinkingDelay.String(),
		Validate: validateDuration,
	}
	delayStr, err := delayPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("thinking delay: %w", err)
	}
	cfg.ThinkingDelay, _ = time.ParseDuration(delayStr)

	// 4. Server port.
	portPrompt := promptui.Prompt{
		Label:    "Dashboard port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: validatePort,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 5. Log format.
	formatPrompt := promptui.Select{
		Label: "Log format",
		Items: []string{string(LogFormatText), string(LogFormatJSON)},
	}
	_, formatStr, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log format: %w", err)
	}
	cfg.Log.Format = LogFormat(formatStr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Bots.SlackSigningSecret == "" {
		fmt.Printf("\nNote: set %sBOTS__SLACK_SIGNING_SECRET to enable the Slack webhook.\n", EnvPrefix)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateDuration(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("not a duration (try 1s or 500ms)")
	}
	if d < 0 {
		return fmt.Errorf("must be non-negative")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("must be a port number")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
