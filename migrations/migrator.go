package migrations

import (
	"errors"
	"fmt"
	"sort"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
)

const (
	// CurrentVersion is the version of the document written by this build
	CurrentVersion = 13

	persistKey      = "_persist"
	versionKey      = "version"
	transactionsKey = "transactions"
)

// ErrUnknownVersion is returned when the document was written by a newer build
var ErrUnknownVersion = errors.New("persisted state version is newer than the supported one")

// Document is the raw persisted state as decoded from JSON
type Document = map[string]interface{}

// MigrationFunc transforms a document from the previous version. It must not
// modify its input and must return it unchanged when the shape it migrates is absent.
type MigrationFunc func(doc Document) Document

// Migrator applies the registered migrations in increasing version order
type Migrator struct {
	migrations map[int]MigrationFunc
	current    int
}

// NewMigrator returns a migrator with every known migration registered
func NewMigrator() *Migrator {
	return &Migrator{
		migrations: map[int]MigrationFunc{
			12: Migration12,
			13: Migration13,
		},
		current: CurrentVersion,
	}
}

// Register adds or overrides the migration producing version
func (m *Migrator) Register(version int, fn MigrationFunc) {
	m.migrations[version] = fn
	if version > m.current {
		m.current = version
	}
}

// CurrentVersion returns the version documents are migrated to
func (m *Migrator) CurrentVersion() int {
	return m.current
}

// Migrate runs every migration above the persisted version, returning the
// document stamped with the current version
func (m *Migrator) Migrate(doc Document) (Document, error) {
	if doc == nil {
		doc = Document{}
	}
	from := Version(doc)
	if from > m.current {
		return nil, fmt.Errorf("%w: %d > %d", ErrUnknownVersion, from, m.current)
	}

	versions := make([]int, 0, len(m.migrations))
	for v := range m.migrations {
		if v > from && v <= m.current {
			versions = append(versions, v)
		}
	}
	sort.Ints(versions)

	for _, v := range versions {
		log.Infof("migrating persisted state to version %d", v)
		doc = m.migrations[v](doc)
	}
	return withVersion(doc, m.current), nil
}

// Version returns the _persist.version of the document, -1 when absent
func Version(doc Document) int {
	persist, ok := doc[persistKey].(map[string]interface{})
	if !ok {
		return -1
	}
	switch v := persist[versionKey].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return -1
	}
}

func withVersion(doc Document, version int) Document {
	out := cloneMap(doc)
	persist, _ := doc[persistKey].(map[string]interface{})
	persist = cloneMap(persist)
	// float64 keeps the document equal to its JSON decoding
	persist[versionKey] = float64(version)
	out[persistKey] = persist
	return out
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// mapTransactions rewrites every transaction object of the document with fn
func mapTransactions(doc Document, fn func(chainID, hash string, tx map[string]interface{}) map[string]interface{}) (Document, bool) {
	txs, ok := doc[transactionsKey].(map[string]interface{})
	if !ok {
		return doc, false
	}

	newTxs := make(map[string]interface{}, len(txs))
	for chainID, chainTxs := range txs {
		byHash, ok := chainTxs.(map[string]interface{})
		if !ok {
			newTxs[chainID] = chainTxs
			continue
		}
		newByHash := make(map[string]interface{}, len(byHash))
		for hash, raw := range byHash {
			tx, ok := raw.(map[string]interface{})
			if !ok {
				newByHash[hash] = raw
				continue
			}
			newByHash[hash] = fn(chainID, hash, cloneMap(tx))
		}
		newTxs[chainID] = newByHash
	}

	out := cloneMap(doc)
	out[transactionsKey] = newTxs
	return out, true
}
