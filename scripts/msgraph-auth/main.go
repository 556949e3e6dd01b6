// scripts/msgraph-auth/main.go
//
// Run this ONCE locally to authorize Microsoft To Do access and print
// the refresh token for MSGRAPH_REFRESH_TOKEN.
//
// Usage:
//   MSGRAPH_CLIENT_ID=... [MSGRAPH_CLIENT_SECRET=... MSGRAPH_TENANT_ID=...] \
//     go run scripts/msgraph-auth/main.go
//
// The app registration needs delegated Tasks.ReadWrite permission and
// http://localhost as a redirect URI.

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

func main() {
	clientID := os.Getenv("MSGRAPH_CLIENT_ID")
	if clientID == "" {
		log.Fatal("MSGRAPH_CLIENT_ID is required")
	}
	tenant := os.Getenv("MSGRAPH_TENANT_ID")
	if tenant == "" {
		tenant = "common"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: os.Getenv("MSGRAPH_CLIENT_SECRET"),
		Endpoint:     microsoft.AzureADEndpoint(tenant),
		RedirectURL:  "http://localhost",
		Scopes:       []string{"Tasks.ReadWrite", "offline_access"},
	}

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Println("=================================================================")
	fmt.Println("STEP 1: Open this URL in a browser and sign in with your Microsoft account:")
	fmt.Println()
	fmt.Println(authURL)
	fmt.Println()
	fmt.Println("=================================================================")
	fmt.Println("After signing in you land on a localhost error page.")
	fmt.Print("STEP 2: Paste the `code` query parameter from that URL here and press Enter: ")

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		log.Fatalf("Failed to read authorization code: %v", err)
	}

	tok, err := config.Exchange(context.Background(), code)
	if err != nil {
		log.Fatalf("Failed to exchange authorization code: %v", err)
	}

	if tok.RefreshToken == "" {
		log.Fatal("No refresh token returned. Check that offline_access is consented.")
	}

	fmt.Println()
	fmt.Println("Set this in your environment or config.yaml:")
	fmt.Printf("  MSGRAPH_REFRESH_TOKEN=%s\n", tok.RefreshToken)
}
