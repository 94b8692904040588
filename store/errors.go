package store

import "errors"

// ErrTransactionExists is returned when adding a transaction at a key already in use
var ErrTransactionExists = errors.New("transaction already exists")
