package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"staffport.io/staffport/core/models"
	"staffport.io/staffport/security"
)

// Mints a session token for local API poking without going through login.
func main() {
	id := flag.Uint("id", 1, "user id")
	email := flag.String("email", "admin@staffport.local", "user email")
	role := flag.String("role", models.RoleAdmin, "user role")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret, err := base64.StdEncoding.DecodeString(os.Getenv("STAFFPORT_SIGNING_SECRET"))
	if err != nil {
		log.Fatal("failed to decode signing secret:", err)
	}

	user := models.User{
		ID:    *id,
		Email: *email,
		Role:  *role,
	}

	token, err := security.CreateSessionToken(secret, &user, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
