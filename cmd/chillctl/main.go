package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	apiclient "github.com/shubham03062002/ChillScreen-Backend/pkg/api/client"
)

type cliConfig struct {
	APIBaseURL   string `json:"api_base_url"`
	SessionToken string `json:"session_token"`
}

const defaultAPIBase = "http://localhost:5000"

var buildVersion = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "register":
		err = commandRegister(args)
	case "login":
		err = commandLogin(args)
	case "logout":
		err = commandLogout()
	case "whoami":
		err = commandWhoami(args)
	case "watch":
		err = commandList(args, "watch")
	case "fav":
		err = commandList(args, "fav")
	case "version", "--version", "-v":
		fmt.Println(strings.TrimSpace(buildVersion))
		return
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func commandRegister(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "First name")
	surname := fs.String("surname", "", "Surname")
	email := fs.String("email", "", "Email address")
	phone := fs.String("phone", "", "Phone number")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	apiBase := fs.String("api", "", "API base URL (default "+defaultAPIBase+")")
	fs.Parse(args)

	for flagName, value := range map[string]string{
		"--name": *name, "--surname": *surname, "--email": *email, "--phone": *phone,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", flagName)
		}
	}
	secret, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	cfg, client, err := resolveClient(*apiBase)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := client.Register(ctx, apiclient.RegisterInput{
		Name:     *name,
		Surname:  *surname,
		Email:    *email,
		Phone:    *phone,
		Password: secret,
	}); err != nil {
		return err
	}
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("registration successful, run `chillctl login` next")
	return nil
}

func commandLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (supply to avoid prompt)")
	apiBase := fs.String("api", "", "API base URL (default "+defaultAPIBase+")")
	fs.Parse(args)

	if strings.TrimSpace(*email) == "" {
		return errors.New("--email is required")
	}
	secret, err := resolvePassword(*password)
	if err != nil {
		return err
	}

	cfg, client, err := resolveClient(*apiBase)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	token, err := client.Login(ctx, *email, secret)
	if err != nil {
		return err
	}
	cfg.SessionToken = token
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("login successful")
	return nil
}

// commandLogout discards the local session; the token simply expires
// server-side.
func commandLogout() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.SessionToken = ""
	if err := saveConfig(cfg); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func commandWhoami(args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	apiBase := fs.String("api", "", "API base URL")
	fs.Parse(args)

	cfg, client, err := resolveClient(*apiBase)
	if err != nil {
		return err
	}
	if cfg.SessionToken == "" {
		return errors.New("not logged in, run `chillctl login` first")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	profile, err := client.Me(ctx, cfg.SessionToken)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s <%s>\n", profile.Name, profile.Surname, profile.Email)
	fmt.Printf("watchlist: %d items, favourites: %d items\n", len(profile.Watchlist), len(profile.Favourites))
	return nil
}

func commandList(args []string, kind string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: chillctl %s add|rm|ls ...", kind)
	}
	sub := args[0]
	fs := flag.NewFlagSet(kind+" "+sub, flag.ExitOnError)
	id := fs.String("id", "", "Item id")
	title := fs.String("title", "", "Item title (add only)")
	itemJSON := fs.String("item", "", "Raw item JSON (add only, overrides --id/--title)")
	apiBase := fs.String("api", "", "API base URL")
	fs.Parse(args[1:])

	cfg, client, err := resolveClient(*apiBase)
	if err != nil {
		return err
	}
	if cfg.SessionToken == "" {
		return errors.New("not logged in, run `chillctl login` first")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch sub {
	case "add":
		item, err := buildItem(*itemJSON, *id, *title)
		if err != nil {
			return err
		}
		var result apiclient.ListResult
		if kind == "watch" {
			result, err = client.AddToWatchlist(ctx, cfg.SessionToken, item)
		} else {
			result, err = client.AddToFavourites(ctx, cfg.SessionToken, item)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d items)\n", result.Message, len(result.Items))
	case "rm":
		if strings.TrimSpace(*id) == "" {
			return errors.New("--id is required")
		}
		var result apiclient.ListResult
		if kind == "watch" {
			result, err = client.RemoveFromWatchlist(ctx, cfg.SessionToken, *id)
		} else {
			result, err = client.RemoveFromFavourites(ctx, cfg.SessionToken, *id)
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d items)\n", result.Message, len(result.Items))
	case "ls":
		var items []json.RawMessage
		if kind == "watch" {
			items, err = client.Watchlist(ctx, cfg.SessionToken)
		} else {
			items, err = client.Favourites(ctx, cfg.SessionToken)
		}
		if err != nil {
			return err
		}
		for _, item := range items {
			fmt.Println(string(item))
		}
	default:
		return fmt.Errorf("unknown subcommand %q, want add|rm|ls", sub)
	}
	return nil
}

func buildItem(itemJSON, id, title string) (map[string]any, error) {
	if strings.TrimSpace(itemJSON) != "" {
		var item map[string]any
		if err := json.Unmarshal([]byte(itemJSON), &item); err != nil {
			return nil, fmt.Errorf("parse --item: %w", err)
		}
		return item, nil
	}
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("--id is required")
	}
	item := map[string]any{"id": id}
	if strings.TrimSpace(title) != "" {
		item["title"] = title
	}
	return item, nil
}

func resolvePassword(supplied string) (string, error) {
	if strings.TrimSpace(supplied) != "" {
		return strings.TrimSpace(supplied), nil
	}
	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Print("\n")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func resolveClient(apiBase string) (cliConfig, *apiclient.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cliConfig{}, nil, err
	}
	if strings.TrimSpace(apiBase) != "" {
		cfg.APIBaseURL = strings.TrimSpace(apiBase)
	} else if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBase
	}
	client, err := apiclient.New(cfg.APIBaseURL)
	if err != nil {
		return cliConfig{}, nil, err
	}
	return cfg, client, nil
}

func loadConfig() (cliConfig, error) {
	path, err := configPath()
	if err != nil {
		return cliConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cliConfig{APIBaseURL: defaultAPIBase}, nil
		}
		return cliConfig{}, err
	}
	var cfg cliConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cliConfig{}, err
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBase
	}
	return cfg, nil
}

func saveConfig(cfg cliConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func configPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "chillscreen", "config.json"), nil
}

func printUsage() {
	fmt.Printf("chillctl %s\n\n", buildVersion)
	fmt.Print(`Usage:
	chillctl register --name N --surname S --email user@example.com --phone P [--password secret]
	chillctl login --email user@example.com [--password secret] [--api http://localhost:5000]
	chillctl logout
	chillctl whoami
	chillctl watch add --id 42 [--title "Foo"] | --item '{"id":42,"title":"Foo"}'
	chillctl watch rm --id 42
	chillctl watch ls
	chillctl fav add|rm|ls ...
	chillctl version
`)
}
