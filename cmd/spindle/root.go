package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "spindle",
	Short: "Tool-call orchestration for conversational models",
	Long: `Spindle drives a conversation with a language model and executes the
tool calls the model embeds in its replies: web search, web page
reading with pagination, and instant answers.

Configuration is read from environment variables (a .env file in the
working directory is loaded if present):
  ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY
  SPINDLE_PROVIDER   anthropic (default), openai, or google
  SPINDLE_MODEL      provider model override
  SPINDLE_REDIS_URL  optional redis URL for persistent sessions`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
