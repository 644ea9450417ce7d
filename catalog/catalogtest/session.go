package catalogtest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shiyingzhe/mysql-router/catalog"
	"github.com/shiyingzhe/mysql-router/types"
)

// Result scripts the outcome of one query: either the rows it visits, or
// an error it fails with. Err takes precedence when both are set.
type Result struct {
	Rows []catalog.Row
	Err  error
}

// FakeSession is a scripted catalog.Session. Zero value connects
// successfully and answers every query with an empty result set unless
// Queries or DefaultResult say otherwise.
type FakeSession struct {
	// ConnectErr, if non-nil, is returned by Connect.
	ConnectErr error

	// Queries maps an exact query string to its scripted Result.
	Queries map[string]Result

	// DefaultResult answers any query not present in Queries.
	DefaultResult Result

	mu          sync.Mutex
	connectCnt  int
	queryCnt    int
	closed      bool
	lastAddr    string
	seenQueries []string
}

var _ catalog.Session = (*FakeSession)(nil)

func (s *FakeSession) Connect(_ context.Context, host string, port uint16, _, _ string, _ time.Duration) error {
	s.mu.Lock()
	s.connectCnt++
	s.lastAddr = fmt.Sprintf("%s:%d", host, port)
	s.mu.Unlock()
	return s.ConnectErr
}

func (s *FakeSession) Query(_ context.Context, sql string, visit catalog.RowFunc) error {
	s.mu.Lock()
	s.queryCnt++
	s.seenQueries = append(s.seenQueries, sql)
	s.mu.Unlock()

	res, ok := s.Queries[sql]
	if !ok {
		res = s.DefaultResult
	}
	if res.Err != nil {
		return res.Err
	}
	for _, row := range res.Rows {
		cont, err := visit(row)
		if err != nil {
			return err
		}
		if !cont {
			break
		}
	}
	return nil
}

func (s *FakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ConnectCount returns how many times Connect was called.
func (s *FakeSession) ConnectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectCnt
}

// QueryCount returns how many times Query was called.
func (s *FakeSession) QueryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryCnt
}

// SeenQueries returns every query string passed to Query, in order.
func (s *FakeSession) SeenQueries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.seenQueries))
	copy(out, s.seenQueries)
	return out
}

// Closed reports whether Close has been called.
func (s *FakeSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// FakeSessionFactory hands out sessions scripted per address, mirroring
// how the discovery protocol dials seeds and metadata-server candidates
// one at a time and needs some to fail and some to succeed.
type FakeSessionFactory struct {
	mu sync.Mutex

	// ByAddr maps "host:port" to the session that Connect against that
	// address should bind to.
	ByAddr map[string]*FakeSession

	// Default is used for any address not present in ByAddr. If nil, an
	// address with no binding gets a fresh always-succeeding session.
	Default *FakeSession

	createCnt int
}

var _ catalog.SessionFactory = (*FakeSessionFactory)(nil)

// Create returns a new bound session; the concrete *FakeSession backing
// it is resolved from the address on each Connect call.
func (f *FakeSessionFactory) Create() catalog.Session {
	f.mu.Lock()
	f.createCnt++
	f.mu.Unlock()
	return &boundSession{factory: f}
}

// CreateCount returns how many times Create has been called, mirroring
// the original test double's create_cnt().
func (f *FakeSessionFactory) CreateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCnt
}

// boundSession defers to whichever *FakeSession its factory has scripted
// for the address it's asked to Connect to.
type boundSession struct {
	factory *FakeSessionFactory
	session *FakeSession
}

func (b *boundSession) Connect(ctx context.Context, host string, port uint16, user, password string, timeout time.Duration) error {
	addr := fmt.Sprintf("%s:%d", host, port)

	b.factory.mu.Lock()
	session, ok := b.factory.ByAddr[addr]
	if !ok {
		session = b.factory.Default
	}
	b.factory.mu.Unlock()

	if session == nil {
		session = &FakeSession{}
	}
	b.session = session
	return session.Connect(ctx, host, port, user, password, timeout)
}

func (b *boundSession) Query(ctx context.Context, sql string, visit catalog.RowFunc) error {
	if b.session == nil {
		return &types.QueryError{Query: sql, Cause: types.ErrSessionClosed}
	}
	return b.session.Query(ctx, sql, visit)
}

func (b *boundSession) Close() error {
	if b.session == nil {
		return nil
	}
	return b.session.Close()
}
