// internal/common/firebase/app.go
package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"eventapp-functions/internal/common/config"
)

// Clients bundles the Firebase-backed collaborators: identity provider,
// document database and push gateway. Constructed once at process startup
// and passed into each handler explicitly.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
	Messaging *messaging.Client
}

// NewClients initializes the Firebase app and derives all service clients.
func NewClients(ctx context.Context, cfg config.FirebaseConfig) (*Clients, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize auth client: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firestore client: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize messaging client: %w", err)
	}

	return &Clients{
		Auth:      authClient,
		Firestore: fsClient,
		Messaging: msgClient,
	}, nil
}

// Close releases the Firestore connection. Auth and Messaging hold no
// long-lived resources of their own.
func (c *Clients) Close() error {
	if c.Firestore != nil {
		return c.Firestore.Close()
	}
	return nil
}
