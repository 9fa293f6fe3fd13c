package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/domain/reminder"
	"github.com/fieldpulse/fieldcrm-backend-go/internal/pkg/database"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const remindersCollection = "reminders"

// ReminderRepository stores reminders as a subcollection under each user.
type ReminderRepository struct {
	store *database.DocStore
}

func NewReminderRepository(store *database.DocStore) *ReminderRepository {
	return &ReminderRepository{store: store}
}

func (r *ReminderRepository) reminders(userID string) *firestore.CollectionRef {
	return r.store.Client.Collection(usersCollection).Doc(userID).Collection(remindersCollection)
}

func (r *ReminderRepository) Create(ctx context.Context, rem reminder.Reminder) (reminder.Reminder, error) {
	ref := r.reminders(rem.UserID).NewDoc()
	rem.ID = ref.ID
	if _, err := ref.Set(ctx, rem); err != nil {
		return reminder.Reminder{}, fmt.Errorf("creating reminder: %w", err)
	}
	return rem, nil
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID string) ([]reminder.Reminder, error) {
	return r.list(userID, r.reminders(userID).OrderBy("due_time", firestore.Asc).Documents(ctx))
}

func (r *ReminderRepository) ListPending(ctx context.Context, userID string, before time.Time) ([]reminder.Reminder, error) {
	iter := r.reminders(userID).
		Where("done", "==", false).
		Where("due_time", "<", before).
		OrderBy("due_time", firestore.Asc).
		Documents(ctx)
	return r.list(userID, iter)
}

func (r *ReminderRepository) MarkDone(ctx context.Context, userID string, id string) error {
	_, err := r.reminders(userID).Doc(id).Update(ctx, []firestore.Update{
		{Path: "done", Value: true},
	})
	if status.Code(err) == codes.NotFound {
		return reminder.ErrReminderNotFound
	}
	if err != nil {
		return fmt.Errorf("marking reminder done: %w", err)
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, userID string, id string) error {
	snap, err := r.reminders(userID).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return reminder.ErrReminderNotFound
	}
	if err != nil {
		return fmt.Errorf("getting reminder: %w", err)
	}
	if _, err := snap.Ref.Delete(ctx); err != nil {
		return fmt.Errorf("deleting reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) list(userID string, iter *firestore.DocumentIterator) ([]reminder.Reminder, error) {
	defer iter.Stop()

	var out []reminder.Reminder
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterating reminders: %w", err)
		}
		var rem reminder.Reminder
		if err := snap.DataTo(&rem); err != nil {
			return nil, fmt.Errorf("decoding reminder: %w", err)
		}
		rem.ID = snap.Ref.ID
		rem.UserID = userID
		out = append(out, rem)
	}
	return out, nil
}
