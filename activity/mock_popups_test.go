package activity

import (
	"sync"
	"time"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/notification"
	"github.com/0xPolygonHermez/zkevm-tx-tracker/types"
)

type popupCall struct {
	content      notification.PopupContent
	key          string
	dismissAfter time.Duration
}

type popupsMock struct {
	mu    sync.Mutex
	calls []popupCall
}

func (m *popupsMock) AddPopup(content notification.PopupContent, key string, dismissAfter time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, popupCall{content: content, key: key, dismissAfter: dismissAfter})
}

type chainsMock map[types.ChainID]bool

func (m chainsMock) IsL2(chainID types.ChainID) bool {
	return m[chainID]
}
