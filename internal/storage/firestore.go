package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var firestoreScopes = []string{
	"https://www.googleapis.com/auth/datastore",
	"https://www.googleapis.com/auth/cloud-platform",
}

// FirestoreCredentials are the service-account fields the process is started with.
type FirestoreCredentials struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

// Complete reports whether every field needed for a service account is present.
func (c FirestoreCredentials) Complete() bool {
	return c.ProjectID != "" && c.ClientEmail != "" && c.PrivateKey != ""
}

// serviceAccountJSON renders the fields as a service-account key file.
func (c FirestoreCredentials) serviceAccountJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   c.ProjectID,
		"client_email": c.ClientEmail,
		"private_key":  c.PrivateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

// FirestoreStore keeps documents in Cloud Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects with the given service account. When
// FIRESTORE_EMULATOR_HOST is set the client talks to the emulator and the
// key fields are not required.
func NewFirestoreStore(ctx context.Context, creds FirestoreCredentials) (*FirestoreStore, error) {
	if creds.ProjectID == "" {
		return nil, errors.New("firestore project id is not set")
	}

	var opts []option.ClientOption
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		if !creds.Complete() {
			return nil, errors.New("firestore client email and private key are required")
		}
		data, err := creds.serviceAccountJSON()
		if err != nil {
			return nil, fmt.Errorf("build service account: %w", err)
		}
		gc, err := google.CredentialsFromJSON(ctx, data, firestoreScopes...)
		if err != nil {
			return nil, fmt.Errorf("parse service account: %w", err)
		}
		opts = append(opts, option.WithCredentials(gc))
	}

	client, err := firestore.NewClient(ctx, creds.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func (s *FirestoreStore) Read(ctx context.Context, collection, id string) (map[string]any, bool, error) {
	if err := checkPath(collection, id); err != nil {
		return nil, false, err
	}
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if !snap.Exists() {
		return nil, false, nil
	}
	return snap.Data(), true, nil
}

func (s *FirestoreStore) Write(ctx context.Context, collection, id string, fields map[string]any) error {
	if err := checkPath(collection, id); err != nil {
		return err
	}
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fields, firestore.MergeAll)
	return err
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
