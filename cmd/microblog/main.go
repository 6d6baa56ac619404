package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/microblog-net/microblog/internal/auth"
	"github.com/microblog-net/microblog/internal/client"
	"github.com/microblog-net/microblog/internal/config"
	"github.com/microblog-net/microblog/internal/datefmt"
	httpapp "github.com/microblog-net/microblog/internal/http"
	"github.com/microblog-net/microblog/internal/store/sqlite"
)

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "server", "serve":
		runServer()
	case "register":
		cmdRegister(args)
	case "post":
		cmdPost(args)
	case "read":
		cmdRead(args)
	case "version", "-v", "--version":
		fmt.Println("microblog v0.1.0")
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`microblog - a hypermedia microblog

Usage: microblog <command> [options]

Server:
  server              Start the microblog server (default if no command)

Client Commands:
  register            Register a new user
  post                Post a message (requires credentials)
  read                Read the front page, or one user's messages

Examples:
  microblog register --user alice --password s3cret --name "Alice"
  microblog post --user alice --password s3cret --text "hello world"
  microblog read
  microblog read --user alice

Environment Variables (server):
  PORT                      Listen port (default: 8080)
  MICROBLOG_ADDR            Full listen address, overrides PORT
  MICROBLOG_DB              Database path (default: microblog.db)
  MICROBLOG_REALM           Basic auth realm (default: Microblog)
  MICROBLOG_STRICT_404      404 on unknown message/user ids (default: false)`)
}

func runServer() {
	cfg := config.Load()

	st, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer st.Close()

	server, err := httpapp.NewServer(st, auth.NewService(st), datefmt.New(nil), cfg)
	if err != nil {
		log.Fatalf("failed to initialize server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	go func() {
		log.Printf("microblog listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

func cmdRegister(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	serverURL := fs.String("url", "http://localhost:8080", "Microblog server URL")
	user := fs.String("user", "", "User ID (required)")
	password := fs.String("password", "", "Password")
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	description := fs.String("description", "", "Short bio")
	avatar := fs.String("avatar", "", "Avatar image URL")
	website := fs.String("website", "", "Website URL")
	fs.Parse(args)

	if *user == "" {
		fmt.Fprintln(os.Stderr, "Error: --user is required")
		os.Exit(1)
	}

	c := client.New(*serverURL)
	err := c.Register(context.Background(), client.RegisterInput{
		UserID:      *user,
		Password:    *password,
		Name:        *name,
		Email:       *email,
		Description: *description,
		AvatarURL:   *avatar,
		WebsiteURL:  *website,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error registering: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Registered user %q\n", *user)
}

func cmdPost(args []string) {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	serverURL := fs.String("url", "http://localhost:8080", "Microblog server URL")
	user := fs.String("user", "", "User ID (required)")
	password := fs.String("password", "", "Password")
	text := fs.String("text", "", "Message text (required)")
	fs.Parse(args)

	if *user == "" || *text == "" {
		fmt.Fprintln(os.Stderr, "Error: --user and --text are required")
		os.Exit(1)
	}

	c := client.New(*serverURL)
	if err := c.PostMessage(context.Background(), *user, *password, *text); err != nil {
		fmt.Fprintf(os.Stderr, "Error posting: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Posted.")
}

func cmdRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	serverURL := fs.String("url", "http://localhost:8080", "Microblog server URL")
	user := fs.String("user", "", "Read one user's messages instead of the front page")
	fs.Parse(args)

	c := client.New(*serverURL)
	var (
		page string
		err  error
	)
	if *user != "" {
		page, err = c.UserMessages(context.Background(), *user)
	} else {
		page, err = c.Home(context.Background())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(page)
}
