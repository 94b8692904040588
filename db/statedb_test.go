package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentVersion(t *testing.T) {
	assert.Equal(t, 13, documentVersion([]byte(`{"_persist":{"version":13},"transactions":{}}`)))
	assert.Equal(t, 0, documentVersion([]byte(`{"transactions":{}}`)))
	assert.Equal(t, 0, documentVersion([]byte(`not json`)))
}
