package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"studio/client"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", envOr("STUDIO_ADDR", "http://localhost:8080"), "studio API base URL")
	email := flag.String("email", os.Getenv("STUDIO_EMAIL"), "account email (for commands that need login)")
	password := flag.String("password", os.Getenv("STUDIO_PASSWORD"), "account password")
	count := flag.Int("count", 10, "number of feed items to import")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	c := client.New(*addr)
	command := flag.Arg(0)

	switch command {
	case "blogs":
		blogs, err := c.Blogs(ctx)
		if err != nil {
			log.Fatalf("failed to list blogs: %v", err)
		}
		for _, b := range blogs {
			fmt.Printf("%s  %s  [%s]\n", b.ID, b.Title, b.Category)
		}

	case "projects":
		projects, err := c.Projects(ctx)
		if err != nil {
			log.Fatalf("failed to list projects: %v", err)
		}
		for _, p := range projects {
			fmt.Printf("%s  %s  (%s)\n", p.ID, p.Title, p.Type)
		}

	case "categories":
		categories, err := c.Categories(ctx)
		if err != nil {
			log.Fatalf("failed to list categories: %v", err)
		}
		for _, cat := range categories {
			fmt.Printf("%s  %s  [%s]\n", cat.ID, cat.Name, cat.Type)
		}

	case "profile":
		profile, err := c.Profile(ctx)
		if err != nil {
			log.Fatalf("failed to fetch profile: %v", err)
		}
		if profile == nil {
			fmt.Println("no profile saved yet")
			return
		}
		fmt.Printf("%s: %s (%s)\n", profile.Name, profile.Tagline, profile.Email)

	case "import":
		if flag.NArg() < 2 {
			log.Fatal("usage: studioctl import <feed-url>")
		}
		login(ctx, c, *email, *password)
		result, err := c.ImportFeed(ctx, flag.Arg(1), *count)
		if err != nil {
			log.Fatalf("import failed: %v", err)
		}
		fmt.Printf("import result: %s\n", result)

	default:
		usage()
		os.Exit(2)
	}
}

func login(ctx context.Context, c *client.Client, email, password string) {
	if email == "" || password == "" {
		log.Fatal("this command needs -email and -password (or STUDIO_EMAIL / STUDIO_PASSWORD)")
	}
	if err := c.Login(ctx, email, password); err != nil {
		log.Fatalf("login failed: %v", err)
	}
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: studioctl [flags] <command>")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  blogs        list articles")
	fmt.Fprintln(os.Stderr, "  projects     list projects")
	fmt.Fprintln(os.Stderr, "  categories   list categories")
	fmt.Fprintln(os.Stderr, "  profile      show the site profile")
	fmt.Fprintln(os.Stderr, "  import <url> import articles from an RSS feed (needs login)")
	flag.PrintDefaults()
}
