package storefakes

import (
	"net/http"
	"sync"

	"github.com/jrsteele09/go-session-gateway/session"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore holds a single client's record in memory. The transport
// arguments are ignored; tests drive Write/Read directly.
type FakeStore struct {
	record *session.Record
	lock   sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Write(_ http.ResponseWriter, record *session.Record) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.record = record
	return nil
}

func (fs *FakeStore) Read(_ *http.Request) (*session.Record, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.record, nil
}

func (fs *FakeStore) Clear(_ http.ResponseWriter) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.record = nil
}
