package session

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RoleDirectory is the authoritative source of user roles. Admin operations
// re-check the role there instead of trusting the cookie alone.
type RoleDirectory interface {
	Role(ctx context.Context, userID string) (role Role, found bool, err error)
}

// FirestoreDirectory reads the role field of users/{id}.
type FirestoreDirectory struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreDirectory(client *firestore.Client) *FirestoreDirectory {
	return &FirestoreDirectory{client: client, collection: "users"}
}

func (d *FirestoreDirectory) Role(ctx context.Context, userID string) (Role, bool, error) {
	snap, err := d.client.Collection(d.collection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s/%s: %w", d.collection, userID, err)
	}

	raw, err := snap.DataAt("role")
	if err != nil {
		return RoleUser, true, nil
	}
	s, _ := raw.(string)
	return NormalizeRole(s), true, nil
}
