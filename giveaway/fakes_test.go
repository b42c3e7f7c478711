package giveaway

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type fakePublisher struct {
	mu sync.Mutex

	announceErr  error
	nextID       int
	announced    []*Snapshot
	resolved     []*Resolution
	rerolled     []*Resolution
	reacted      []string
	reactionsErr error
	resolveErr   error
}

func (p *fakePublisher) Announce(_ context.Context, gw *Snapshot) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.announceErr != nil {
		return "", p.announceErr
	}
	p.nextID++
	p.announced = append(p.announced, gw)
	return fmt.Sprintf("msg-%d", p.nextID), nil
}

func (p *fakePublisher) Resolve(_ context.Context, _ *Snapshot, res *Resolution) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resolved = append(p.resolved, res)
	return p.resolveErr
}

func (p *fakePublisher) Reroll(_ context.Context, _ *Snapshot, res *Resolution) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rerolled = append(p.rerolled, res)
	return nil
}

func (p *fakePublisher) ReactionUsers(context.Context, string, string) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.reacted...), p.reactionsErr
}

func (p *fakePublisher) resolveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.resolved)
}

type fakeDirectory struct {
	mu      sync.Mutex
	members map[string][]string
	broken  map[string]bool
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{members: map[string][]string{}, broken: map[string]bool{}}
}

func (d *fakeDirectory) set(userID string, roles ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.members[userID] = roles
}

func (d *fakeDirectory) remove(userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.members, userID)
}

func (d *fakeDirectory) MemberRoles(_ context.Context, userID string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.broken[userID] {
		return nil, errors.New("gateway timeout")
	}
	roles, ok := d.members[userID]
	if !ok {
		return nil, ErrNotMember
	}
	return roles, nil
}

type fakeTask struct {
	after     time.Duration
	fn        func()
	cancelled bool
}

type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Cancel {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &fakeTask{after: d, fn: fn}
	s.tasks = append(s.tasks, task)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		task.cancelled = true
	}
}

// fire runs the i-th task regardless of whether it was cancelled, the way a timer that
// already started running would.
func (s *fakeScheduler) fire(i int) {
	s.mu.Lock()
	task := s.tasks[i]
	s.mu.Unlock()
	task.fn()
}

func (s *fakeScheduler) task(i int) fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.tasks[i]
}

func (s *fakeScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
