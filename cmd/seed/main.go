// Seeds a running microblog instance with fake users and messages through
// the public HTTP surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/microblog-net/microblog/internal/client"

	"github.com/brianvoe/gofakeit/v6"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Microblog server URL")
	userCount := flag.Int("users", 5, "Number of users to register")
	postCount := flag.Int("posts", 20, "Number of messages to post")
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())

	log.Printf("Seeding %s with %d users and %d messages...", *baseURL, *userCount, *postCount)

	c := client.New(*baseURL)
	ctx := context.Background()

	type account struct {
		userID   string
		password string
	}
	var accounts []account

	for i := 0; i < *userCount; i++ {
		a := account{
			userID:   strings.ToLower(gofakeit.Username()),
			password: gofakeit.Password(true, true, true, false, false, 12),
		}
		err := c.Register(ctx, client.RegisterInput{
			UserID:      a.userID,
			Password:    a.password,
			Name:        gofakeit.Name(),
			Email:       gofakeit.Email(),
			Description: gofakeit.Sentence(8),
			AvatarURL:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", a.userID),
			WebsiteURL:  gofakeit.URL(),
		})
		if err != nil {
			log.Fatalf("register %s: %v", a.userID, err)
		}
		log.Printf("registered user: %s", a.userID)
		accounts = append(accounts, a)
	}

	for i := 0; i < *postCount; i++ {
		a := accounts[rand.Intn(len(accounts))]
		text := gofakeit.Sentence(gofakeit.Number(4, 16))
		if err := c.PostMessage(ctx, a.userID, a.password, text); err != nil {
			log.Fatalf("post as %s: %v", a.userID, err)
		}
	}

	log.Println("done")
}
