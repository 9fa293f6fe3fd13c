package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

// DocStore wraps the Firestore client that holds the mobile-synced
// operational documents (profiles, attendance days, work plans, reminders).
type DocStore struct {
	Client *firestore.Client
}

// NewDocStore initializes the Firestore client for the given project.
func NewDocStore(ctx context.Context, projectID, credentialsPath string) (*DocStore, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	config := &firebase.Config{ProjectID: projectID}
	app, err := firebase.NewApp(ctx, config, opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing Firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("initializing Firestore client: %w", err)
	}

	return &DocStore{Client: client}, nil
}

// Close closes the Firestore client.
func (s *DocStore) Close() error {
	return s.Client.Close()
}
