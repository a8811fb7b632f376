package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-admissions-be/internal/bootstrap"
	"ai-admissions-be/internal/config"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Interactive terminal chat against the same orchestrator as the API.
func main() {
	cfg := config.Load()
	cfg.App.QuietConsole = true

	container, err := bootstrap.NewContainer(nil, cfg)
	if err != nil {
		log.Fatalf("Unable to bootstrap: %v", err)
	}
	defer container.Close()

	ctx := context.Background()
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Consumer not started: %v", err)
	}

	bot := color.New(color.FgCyan)
	prompt := color.New(color.FgGreen, color.Bold)
	errColor := color.New(color.FgRed)

	sessionID := uuid.NewString()
	color.New(color.FgYellow).Printf("Session %s. Tapez \"quit\" pour quitter.\n\n", sessionID)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		prompt.Print("Vous > ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return
		}

		reply, err := container.ChatService.HandleTurn(ctx, line, sessionID)
		if err != nil {
			errColor.Printf("Erreur : %v\n\n", err)
			continue
		}
		bot.Print("Assistant > ")
		fmt.Println(reply)
		fmt.Println()
	}
}
