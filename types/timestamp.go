package types

import (
	"encoding/json"
	"time"
)

// Timestamp is a time persisted as unix milliseconds
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to millisecond precision
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{time.UnixMilli(t.UnixMilli())}
}

// MarshalJSON encodes the timestamp as unix milliseconds
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("0"), nil
	}
	return json.Marshal(t.UnixMilli())
}

// UnmarshalJSON decodes unix milliseconds
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var ms int64
	if err := json.Unmarshal(data, &ms); err != nil {
		return err
	}
	if ms == 0 {
		*t = Timestamp{}
		return nil
	}
	t.Time = time.UnixMilli(ms)
	return nil
}
