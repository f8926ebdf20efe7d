package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"center-hub/domain/event"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
)

// Exit codes for the viewer application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the viewer-side environment variables.
type Config struct {
	ServerAddr   string        `envconfig:"HUB_ADDR" default:"http://localhost:8080"`
	Email        string        `envconfig:"HUB_EMAIL"`
	Password     string        `envconfig:"HUB_PASSWORD"`
	PollInterval time.Duration `envconfig:"HUB_POLL_INTERVAL" default:"2s"`
	Colours      bool          `envconfig:"HUB_COLOURS" default:"true"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Viewer error: %v\n", err)
	}
	os.Exit(code)
}

// run polls the hub's pull endpoint with a moving cursor and prints every
// event it sees. It is the quickest way to watch what the hub is emitting
// without opening a socket.
func run() (int, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{Timeout: 10 * time.Second}
	token, err := login(ctx, client, config)
	if err != nil {
		return exitRuntime, err
	}

	fmt.Printf(">>> Connected to %s! Polling every %s (Ctrl+C to quit)...\n",
		config.ServerAddr, config.PollInterval)

	ticker := time.NewTicker(config.PollInterval)
	defer ticker.Stop()

	cursor := ""
	for {
		select {
		case <-ctx.Done():
			fmt.Println("Stopping viewer...")
			return exitOK, nil
		case <-ticker.C:
			envelopes, next, err := poll(ctx, client, config, token, cursor)
			if err != nil {
				if ctx.Err() != nil {
					return exitOK, nil
				}
				return exitRuntime, err
			}
			cursor = next
			for _, env := range envelopes {
				display(config, env)
			}
		}
	}
}

func login(ctx context.Context, client *http.Client, config Config) (string, error) {
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, config.Email, config.Password)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		config.ServerAddr+"/api/auth/login", strings.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("could not reach hub at %s: %w", config.ServerAddr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login rejected with status %d", resp.StatusCode)
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return payload.Token, nil
}

func poll(ctx context.Context, client *http.Client, config Config,
	token, cursor string) ([]event.Envelope, string, error) {
	endpoint := config.ServerAddr + "/api/events?cursor=" + url.QueryEscape(cursor)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, cursor, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, cursor, fmt.Errorf("poll failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, cursor, fmt.Errorf("poll rejected with status %d", resp.StatusCode)
	}

	var payload struct {
		Events []event.Envelope `json:"events"`
		Cursor string           `json:"cursor"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, cursor, err
	}
	return payload.Events, payload.Cursor, nil
}

func display(config Config, env event.Envelope) {
	line := fmt.Sprintf("[%s] %s %s",
		env.Timestamp.Format(time.TimeOnly), env.Type, string(env.Data))
	if !config.Colours {
		fmt.Println(line)
		return
	}

	switch env.Type {
	case event.KindMessageCreated:
		color.Green.Println(line)
	case event.KindContactMessageCreated:
		color.Yellow.Println(line)
	case event.KindCenterUpdated:
		color.Cyan.Println(line)
	default:
		fmt.Println(line)
	}
}
