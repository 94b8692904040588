package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/migrations"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/store"
)

// Meta is the _persist section of the document
type Meta struct {
	Version    int  `json:"version"`
	Rehydrated bool `json:"rehydrated"`
}

// State is the persisted document
type State struct {
	Persist      Meta                   `json:"_persist"`
	Transactions store.TransactionState `json:"transactions"`
	Signatures   store.SignatureState   `json:"signatures"`
}

// Rehydrate loads the document from storage and migrates it to the current version
func Rehydrate(ctx context.Context, storage Storage, migrator *migrations.Migrator) (State, error) {
	raw, err := storage.Load(ctx)
	if err != nil {
		return State{}, fmt.Errorf("error loading persisted state: %w", err)
	}

	doc := migrations.Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return State{}, fmt.Errorf("error decoding persisted state: %w", err)
		}
	}

	doc, err = migrator.Migrate(doc)
	if err != nil {
		return State{}, err
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return State{}, err
	}
	var state State
	if err := json.Unmarshal(b, &state); err != nil {
		return State{}, fmt.Errorf("error decoding migrated state: %w", err)
	}
	if state.Transactions == nil {
		state.Transactions = store.TransactionState{}
	}
	if state.Signatures == nil {
		state.Signatures = store.SignatureState{}
	}
	state.Persist.Rehydrated = true
	return state, nil
}
