// Package testutil holds helpers shared by tests.
package testutil

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
)

// NewFirestoreTestClient creates a client against the Firestore emulator. It
// requires FIRESTORE_EMULATOR_HOST to point at a running emulator.
func NewFirestoreTestClient(ctx context.Context) *firestore.Client {
	client, err := firestore.NewClient(ctx, "test")
	if err != nil {
		log.Fatalf("firestore.NewClient err: %v", err)
	}

	return client
}
