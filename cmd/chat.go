package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/cdp-assistant/internal/chat"
)

var chatDelay time.Duration

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Opens a conversation with the assistant in the terminal. Replies arrive
after the configured thinking delay. Type "exit" or press Ctrl-D to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closer, err := bootstrap()
		if err != nil {
			return err
		}
		defer closer.Close()

		rt, err := buildRuntime(cfg)
		if err != nil {
			return err
		}
		defer rt.Close()

		delay := cfg.ThinkingDelay
		if cmd.Flags().Changed("delay") {
			delay = chatDelay
		}

		sess := chat.NewSession(chat.Options{
			Responder: rt.assistant.Responder(cliSource),
			Greeting:  cfg.Greeting,
			Delay:     delay,
		})
		defer sess.Close()

		replies := make(chan chat.Message, 8)
		unsubscribe := sess.Subscribe(func(ev chat.Event) {
			if ev.Type == chat.EventMessageAdded && ev.Message.Role == chat.RoleBot {
				replies <- ev.Message
			}
		})
		defer unsubscribe()

		for _, m := range sess.Messages() {
			printBotMessage(m)
		}

		return chatLoop(sess, replies)
	},
}

var (
	botLabel      = color.New(color.FgCyan, color.Bold).SprintFunc()
	thinkingLabel = color.New(color.Faint).SprintFunc()
)

func printBotMessage(m chat.Message) {
	if m.Role != chat.RoleBot {
		return
	}
	fmt.Printf("%s %s\n\n", botLabel("Assistant:"), m.Content)
}

func chatLoop(sess *chat.Session, replies <-chan chat.Message) error {
	prompt := promptui.Prompt{Label: "You"}
	for {
		input, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		text := strings.TrimSpace(input)
		switch strings.ToLower(text) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if _, err := sess.Send(text); err != nil {
			return err
		}
		fmt.Println(thinkingLabel("Assistant is thinking..."))
		printBotMessage(<-replies)
	}
}

func init() {
	chatCmd.Flags().DurationVar(&chatDelay, "delay", 0, "override the thinking delay (e.g. 0s, 500ms)")
	rootCmd.AddCommand(chatCmd)
}
