package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spindlehq/spindle/convo"
	"github.com/spindlehq/spindle/store"
	"github.com/spindlehq/spindle/tool"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session in the terminal.

The model can search the web, read pages, and look up instant answers
mid-conversation. With SPINDLE_REDIS_URL set, the conversation history
survives restarts under SPINDLE_SESSION_KEY.

Commands inside the session:
  /clear  reset the conversation
  /quit   exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		logger := newLogger(cfg.Debug)

		turns := store.NewTurnStore(nil)
		persistent := cfg.RedisURL != ""
		if persistent {
			adapter, err := store.NewRedisAdapterFromURL(ctx, cfg.RedisURL)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			turns = store.NewTurnStore(adapter)
			if err := turns.Reload(ctx, cfg.SessionKey); err != nil && !errors.Is(err, store.ErrKeyNotFound) {
				return fmt.Errorf("failed to reload session %q: %w", cfg.SessionKey, err)
			}
		}

		session := convo.NewSession(cfg.newClient(),
			convo.WithRenderer(newTerminalRenderer(os.Stdout)),
			convo.WithSearcher(tool.NewDuckDuckGoSearcher()),
			convo.WithFetcher(tool.NewHTTPFetcher()),
			convo.WithInstantAnswerer(tool.NewDuckDuckGoInstant()),
			convo.WithLogger(logger),
			convo.WithTurnStore(turns),
			convo.WithSettings(cfg.settings()),
		)

		fmt.Printf("spindle %s (%s)\n", version, cfg.Provider)
		if persistent && turns.Len() > 0 {
			fmt.Printf("resumed session %q with %d turns\n", cfg.SessionKey, turns.Len())
		}
		fmt.Println("type /quit to exit, /clear to reset")

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for {
			fmt.Print("you> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())

			switch line {
			case "":
				continue
			case "/quit", "/exit":
				return nil
			case "/clear":
				session.Clear()
				if persistent {
					if err := turns.Sync(ctx, cfg.SessionKey); err != nil {
						fmt.Fprintf(os.Stderr, "warning: failed to sync session: %v\n", err)
					}
				}
				fmt.Println("conversation cleared")
				continue
			}

			if err := session.Send(ctx, line); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			if persistent {
				if err := turns.Sync(ctx, cfg.SessionKey); err != nil {
					fmt.Fprintf(os.Stderr, "warning: failed to sync session: %v\n", err)
				}
			}
		}
		return scanner.Err()
	},
}
