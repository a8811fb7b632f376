package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/goccy/go-json"
)

// Plays a scripted conversation against a running API and prints each
// reply. Run with: go run ./scripts -base http://localhost:3000/api
type chatResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Response    string   `json:"response"`
		SessionId   string   `json:"session_id"`
		Route       string   `json:"route"`
		IsForm      bool     `json:"is_form"`
		Suggestions []string `json:"suggestions"`
	} `json:"data"`
	Message string `json:"message"`
}

var script = []string{
	"Bonjour",
	"Quels sont les frais de scolarité ?",
	"Je veux être contacté",
	"Jean Dupont",
	"jean.dupont@example.com",
	"06 12 34 56 78",
	"Data Science",
	"oui",
}

func main() {
	base := flag.String("base", "http://localhost:3000/api", "API base URL")
	flag.Parse()

	client := &http.Client{Timeout: 90 * time.Second}
	user := color.New(color.FgGreen, color.Bold)
	bot := color.New(color.FgCyan)
	meta := color.New(color.FgHiBlack)

	sessionID := ""
	for _, msg := range script {
		user.Printf("> %s\n", msg)

		res, err := send(client, *base, msg, sessionID)
		if err != nil {
			color.Red("request failed: %v", err)
			os.Exit(1)
		}
		if !res.Success {
			color.Red("error: %s", res.Message)
			os.Exit(1)
		}
		sessionID = res.Data.SessionId

		bot.Println(res.Data.Response)
		meta.Printf("[route=%s form=%t suggestions=%v]\n\n", res.Data.Route, res.Data.IsForm, res.Data.Suggestions)
	}

	resp, err := client.Get(*base + "/session/" + sessionID)
	if err != nil {
		color.Red("summary failed: %v", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	summary, _ := io.ReadAll(resp.Body)
	meta.Println(string(summary))
}

func send(client *http.Client, base, message, sessionID string) (*chatResponse, error) {
	body, err := json.Marshal(map[string]string{"message": message, "session_id": sessionID})
	if err != nil {
		return nil, err
	}
	resp, err := client.Post(base+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var res chatResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("decode %d response: %w", resp.StatusCode, err)
	}
	return &res, nil
}
