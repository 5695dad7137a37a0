// Command issue-token prints a bearer token for a user id, signed with the
// configured secret. Intended for local development and smoke tests.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/macrolens/diary/config"
	httpDelivery "github.com/macrolens/diary/internal/delivery/http"
)

func main() {
	user := flag.String("user", "", "user id (random when empty)")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue-token:", err)
		os.Exit(1)
	}

	userID := uuid.New()
	if *user != "" {
		if userID, err = uuid.Parse(*user); err != nil {
			fmt.Fprintln(os.Stderr, "issue-token: invalid user id:", err)
			os.Exit(1)
		}
	}

	token, err := httpDelivery.IssueToken(cfg.Auth.JWTSecret, cfg.Auth.Issuer, userID, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue-token:", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "user %s\n", userID)
	fmt.Println(token)
}
