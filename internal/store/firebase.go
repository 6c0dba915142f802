package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"smartbin-backend/internal/models"
)

const (
	binsCollection      = "bins"
	operatorsCollection = "operators"
	sensorPath          = "bins/bin1"
	sensorHistoryPath   = "bins/bin1/history"
)

// FirebaseStore persists bin and operator records in Firestore and reads the
// authoritative hardware feed from the Realtime Database.
type FirebaseStore struct {
	rtdb *db.Client
	fs   *firestore.Client
}

// NewFirebaseStore builds a FirebaseStore from an initialized Firebase app.
func NewFirebaseStore(ctx context.Context, app *firebase.App) (*FirebaseStore, error) {
	rtdb, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("realtime database client: %w", err)
	}
	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &FirebaseStore{rtdb: rtdb, fs: fs}, nil
}

// Close releases the Firestore client.
func (s *FirebaseStore) Close() error {
	return s.fs.Close()
}

func (s *FirebaseStore) SensorReading(ctx context.Context) (*models.SensorReading, error) {
	var reading models.SensorReading
	if err := s.rtdb.NewRef(sensorPath).Get(ctx, &reading); err != nil {
		return nil, fmt.Errorf("read %s: %w", sensorPath, err)
	}
	// A null node unmarshals to the zero value: no hardware data yet.
	if reading.WeightKg == 0 && reading.FillPct == 0 && reading.UpdatedAt.IsZero() {
		return nil, nil
	}
	return &reading, nil
}

func (s *FirebaseStore) SensorHistory(ctx context.Context) ([]models.HistoryEntry, error) {
	var history []models.HistoryEntry
	if err := s.rtdb.NewRef(sensorHistoryPath).Get(ctx, &history); err != nil {
		return nil, fmt.Errorf("read %s: %w", sensorHistoryPath, err)
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	return history, nil
}

func (s *FirebaseStore) Bins(ctx context.Context) (map[string]models.Bin, error) {
	bins := make(map[string]models.Bin)
	iter := s.fs.Collection(binsCollection).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list bins: %w", err)
		}
		var bin models.Bin
		if err := doc.DataTo(&bin); err != nil {
			return nil, fmt.Errorf("decode bin %s: %w", doc.Ref.ID, err)
		}
		bins[doc.Ref.ID] = bin
	}
	return bins, nil
}

func (s *FirebaseStore) Bin(ctx context.Context, id string) (models.Bin, error) {
	doc, err := s.fs.Collection(binsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.Bin{}, ErrNotFound
	}
	if err != nil {
		return models.Bin{}, fmt.Errorf("get bin %s: %w", id, err)
	}
	var bin models.Bin
	if err := doc.DataTo(&bin); err != nil {
		return models.Bin{}, fmt.Errorf("decode bin %s: %w", id, err)
	}
	return bin, nil
}

func (s *FirebaseStore) PutBin(ctx context.Context, id string, bin models.Bin) error {
	if _, err := s.fs.Collection(binsCollection).Doc(id).Set(ctx, bin); err != nil {
		return fmt.Errorf("put bin %s: %w", id, err)
	}
	return nil
}

func (s *FirebaseStore) DeleteBin(ctx context.Context, id string) error {
	if _, err := s.Bin(ctx, id); err != nil {
		return err
	}
	if _, err := s.fs.Collection(binsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete bin %s: %w", id, err)
	}
	return nil
}

func (s *FirebaseStore) Operators(ctx context.Context) (map[string]models.Operator, error) {
	ops := make(map[string]models.Operator)
	iter := s.fs.Collection(operatorsCollection).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list operators: %w", err)
		}
		var op models.Operator
		if err := doc.DataTo(&op); err != nil {
			return nil, fmt.Errorf("decode operator %s: %w", doc.Ref.ID, err)
		}
		ops[doc.Ref.ID] = op
	}
	return ops, nil
}

func (s *FirebaseStore) Operator(ctx context.Context, id string) (models.Operator, error) {
	doc, err := s.fs.Collection(operatorsCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return models.Operator{}, ErrNotFound
	}
	if err != nil {
		return models.Operator{}, fmt.Errorf("get operator %s: %w", id, err)
	}
	var op models.Operator
	if err := doc.DataTo(&op); err != nil {
		return models.Operator{}, fmt.Errorf("decode operator %s: %w", id, err)
	}
	return op, nil
}

func (s *FirebaseStore) PutOperator(ctx context.Context, id string, op models.Operator) error {
	if _, err := s.fs.Collection(operatorsCollection).Doc(id).Set(ctx, op); err != nil {
		return fmt.Errorf("put operator %s: %w", id, err)
	}
	return nil
}

func (s *FirebaseStore) DeleteOperator(ctx context.Context, id string) error {
	if _, err := s.Operator(ctx, id); err != nil {
		return err
	}
	if _, err := s.fs.Collection(operatorsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete operator %s: %w", id, err)
	}
	return nil
}
