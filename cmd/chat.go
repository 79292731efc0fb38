package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spigell/powerus/internal/chat"
	"github.com/spigell/powerus/internal/display"
	"go.uber.org/zap"
)

const (
	PromptKeepChatting = "Keep chatting"
	PromptNewProblem   = "Describe another problem"
	PromptExit         = "Exit"
)

var errExit = errors.New("exit requested")

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Describe a problem and get matched with a professional in the terminal",
	Run: func(_ *cobra.Command, _ []string) {
		chatLoop()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func chatLoop() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, logger := setup()

	svc, err := newServices(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing services", zap.Error(err))
	}

	color.New(color.FgCyan, color.Bold).Println("Hi! Tell me what needs fixing and I will find a professional for it.")

	conversationID := ""
	for {
		reply, err := ask(ctx, svc.chat, conversationID)
		if err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
		conversationID = reply.ConversationID

		display.Reply(os.Stdout, reply)
		if !reply.ShowMatches {
			continue
		}

		next, err := offerBooking(svc, reply)
		if err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
		if next == PromptNewProblem {
			conversationID = ""
		}
	}
}

// ask reads one message and waits for the reply behind a spinner.
func ask(ctx context.Context, svc *chat.Service, conversationID string) (*chat.Reply, error) {
	prompt := promptui.Prompt{
		Label: "You",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return chat.ErrEmptyMessage
			}
			return nil
		},
	}

	message, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil, errExit
		}
		return nil, fmt.Errorf("reading message: %w", err)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " looking into it..."
	s.Start()
	reply, err := svc.Reply(ctx, conversationID, message)
	s.Stop()

	return reply, err
}

// offerBooking lets the user book one of the matches. It returns the follow-up action.
func offerBooking(svc *services, reply *chat.Reply) (string, error) {
	items := make([]string, 0, len(reply.Matches)+3)
	for _, m := range reply.Matches {
		items = append(items, "Book "+display.MatchLabel(m))
	}
	items = append(items, PromptKeepChatting, PromptNewProblem, PromptExit)

	sel := promptui.Select{
		Label: "What next?",
		Items: items,
	}

	idx, action, err := sel.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return "", errExit
		}
		return "", fmt.Errorf("selecting action: %w", err)
	}

	switch action {
	case PromptKeepChatting, PromptNewProblem:
		return action, nil
	case PromptExit:
		return "", errExit
	}

	b, err := svc.bookings.Book(reply.ConversationID, reply.Matches[idx].ID)
	if err != nil {
		return "", fmt.Errorf("booking: %w", err)
	}
	display.Booking(os.Stdout, b)

	return PromptNewProblem, nil
}
