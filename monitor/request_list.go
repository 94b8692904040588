package monitor

import (
	"sort"
	"sync"

	"github.com/0xPolygonHermez/zkevm-tx-tracker/log"
)

// monitorRequestList represents a list of monitorRequest indexed by key but sorted by nextRetry
type monitorRequestList struct {
	list   map[string]*monitorRequest
	sorted []*monitorRequest
	mutex  sync.Mutex
}

// newMonitorRequestList creates and init a monitorRequestList
func newMonitorRequestList() *monitorRequestList {
	return &monitorRequestList{
		list:   make(map[string]*monitorRequest),
		sorted: []*monitorRequest{},
	}
}

// add adds a request to the list, false if it was already there
func (e *monitorRequestList) add(request *monitorRequest) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if _, found := e.list[request.key()]; !found {
		e.list[request.key()] = request
		e.addSort(request)
		return true
	}
	return false
}

// delete deletes the request from the list
func (e *monitorRequestList) delete(request *monitorRequest) bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	request, found := e.list[request.key()]
	if !found {
		return false
	}

	sLen := len(e.sorted)
	i := sort.Search(sLen, func(i int) bool {
		return isGreaterOrEqualThan(e.sorted[i], request)
	})

	// i is the first request with the same nextRetry, walk forward until the key matches
	for {
		if i == sLen {
			log.Warnf("error deleting monitor request %s from monitorRequestList, we reach the end of the list", request.key())
			return false
		}
		if e.sorted[i].nextRetry.UnixMilli() != request.nextRetry.UnixMilli() {
			log.Warnf("error deleting monitor request %s from monitorRequestList, not found in the list of requests with same nextRetry time: %v", request.key(), request.nextRetry)
			return false
		}
		if e.sorted[i].key() == request.key() {
			break
		}
		i = i + 1
	}

	delete(e.list, request.key())

	copy(e.sorted[i:], e.sorted[i+1:])
	e.sorted[sLen-1] = nil
	e.sorted = e.sorted[:sLen-1]

	return true
}

// first returns the request with the earliest nextRetry
func (e *monitorRequestList) first() (*monitorRequest, bool) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if len(e.sorted) == 0 {
		return nil, false
	}
	return e.sorted[0], true
}

// len returns the length of the list
func (e *monitorRequestList) len() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	return len(e.sorted)
}

// keys returns the keys sorted by nextRetry
func (e *monitorRequestList) keys() []string {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	keys := make([]string, 0, len(e.sorted))
	for _, request := range e.sorted {
		keys = append(keys, request.key())
	}
	return keys
}

// addSort adds the monitor request to the list in a sorted way
func (e *monitorRequestList) addSort(request *monitorRequest) {
	i := sort.Search(len(e.sorted), func(i int) bool {
		return isGreaterThan(e.sorted[i], request)
	})

	e.sorted = append(e.sorted, nil)
	copy(e.sorted[i+1:], e.sorted[i:])
	e.sorted[i] = request
	log.Debugf("added monitor request for tx %s with nextRetry time %v to monitorRequestList at index %d from total %d", request.key(), request.nextRetry, i, len(e.sorted))
}

// isGreaterThan returns true if the request1 has greater nextRetry time than request2
func isGreaterThan(request1 *monitorRequest, request2 *monitorRequest) bool {
	return request1.nextRetry.UnixMilli() > request2.nextRetry.UnixMilli()
}

// isGreaterOrEqualThan returns true if the request1 has greater or equal nextRetry time than request2
func isGreaterOrEqualThan(request1 *monitorRequest, request2 *monitorRequest) bool {
	return request1.nextRetry.UnixMilli() >= request2.nextRetry.UnixMilli()
}
