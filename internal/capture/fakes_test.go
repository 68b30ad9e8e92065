package capture

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 9, 14, 5, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeFrame struct {
	seq    int
	size   Resolution
	closed int
	stamps []string
	turns  Rotation
}

func (f *fakeFrame) Size() Resolution { return f.size }

func (f *fakeFrame) Close() error {
	f.closed++
	return nil
}

// fakeSession delivers frames, advancing the clock by interval per read.
// Reads with index >= failAt fail.
type fakeSession struct {
	clock    *fakeClock
	interval time.Duration
	size     Resolution
	ready    bool
	failAt   int
	reads    int
	closes   int
	frames   []*fakeFrame
	onRead   func(n int)
}

func (s *fakeSession) Ready() bool { return s.ready }

func (s *fakeSession) Read() (Frame, error) {
	n := s.reads
	s.reads++
	s.clock.Advance(s.interval)
	if s.onRead != nil {
		s.onRead(n)
	}
	if s.failAt >= 0 && n >= s.failAt {
		return nil, errors.New("select() timeout")
	}
	f := &fakeFrame{seq: n, size: s.size}
	s.frames = append(s.frames, f)
	return f, nil
}

func (s *fakeSession) Close() error {
	s.closes++
	return nil
}

type fakeWriter struct {
	path   string
	fps    float64
	size   Resolution
	seqs   []int
	sizes  []Resolution
	stamps []string
	closes int
	failAt int
}

func (w *fakeWriter) Write(f Frame) error {
	if w.failAt >= 0 && len(w.seqs) >= w.failAt {
		return errors.New("disk full")
	}
	ff := f.(*fakeFrame)
	w.seqs = append(w.seqs, ff.seq)
	w.sizes = append(w.sizes, ff.size)
	w.stamps = append(w.stamps, ff.stamps...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closes++
	return os.WriteFile(w.path, []byte(fmt.Sprintf("clip %d frames", len(w.seqs))), 0o644)
}

type fakeBackend struct {
	session       *fakeSession
	openErr       error
	opens         int
	writer        *fakeWriter
	writerFailAt  int
	encoded       []*fakeFrame
	encodedPath   string
	encodeQuality int
}

func (b *fakeBackend) Open(Config) (Session, error) {
	b.opens++
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.session, nil
}

func (b *fakeBackend) Rotate(f Frame, r Rotation) (Frame, error) {
	ff := f.(*fakeFrame)
	ff.turns = Rotation((int(ff.turns) + int(r)) % 4)
	ff.size = r.Apply(ff.size)
	return ff, nil
}

func (b *fakeBackend) Stamp(f Frame, label string) {
	ff := f.(*fakeFrame)
	ff.stamps = append(ff.stamps, label)
}

func (b *fakeBackend) EncodeImage(path string, f Frame, quality int) error {
	ff := f.(*fakeFrame)
	b.encoded = append(b.encoded, ff)
	b.encodedPath = path
	b.encodeQuality = quality
	return os.WriteFile(path, []byte(fmt.Sprintf("jpeg %d %s", ff.seq, ff.size)), 0o644)
}

func (b *fakeBackend) NewVideoWriter(path string, fps float64, size Resolution) (VideoWriter, error) {
	b.writer = &fakeWriter{path: path, fps: fps, size: size, failAt: b.writerFailAt}
	return b.writer, nil
}

func newFakeBackend(clock *fakeClock, size Resolution) *fakeBackend {
	return &fakeBackend{
		session: &fakeSession{
			clock:    clock,
			interval: 50 * time.Millisecond,
			size:     size,
			ready:    true,
			failAt:   -1,
		},
		writerFailAt: -1,
	}
}
