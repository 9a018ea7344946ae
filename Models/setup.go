package Models

import (
	"context"
	"log"
	"os"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Global Firebase handles, set once by Connect()
var DB Store
var AuthClient *auth.Client

var ctx = context.Background()

// Connect initializes the Firebase app and wires the global realtime store
// and auth client. Call this once at startup before serving requests.
func Connect() {
	credentials := os.Getenv("FIREBASE_CREDENTIALS")
	if credentials == "" {
		credentials = "./serviceAccountKey.json"
	}
	databaseURL := os.Getenv("FIREBASE_DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("FIREBASE_DATABASE_URL is not set")
	}

	opt := option.WithCredentialsFile(credentials)
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opt)
	if err != nil {
		log.Fatal("Error initializing Firebase app:", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		log.Fatal("Error getting Database client:", err)
	}

	AuthClient, err = app.Auth(ctx)
	if err != nil {
		log.Fatal("Error getting Auth client:", err)
	}

	DB = NewRealtimeStore(client)
	log.Println("Firebase initialized successfully")
}

// IsOnline performs a shallow read against the store with a short deadline.
// Used to tell "offline" apart from a genuine remote failure before session
// and write operations.
func IsOnline(store Store) bool {
	probeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var v interface{}
	_, err := store.Read(probeCtx, "health", &v)
	return err == nil
}
