package transcriber

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/video-secretary/internal/logger"
	"github.com/nguyentantai21042004/video-secretary/internal/media"
	"github.com/nguyentantai21042004/video-secretary/internal/speech"
)

// fakeMedia writes the interval start into each exported chunk so the
// fake speech client can tell chunks apart.
type fakeMedia struct {
	asset     media.Asset
	probeErr  error
	exportErr map[int64]error
	chunkSize int

	mu      sync.Mutex
	exports []Interval
}

func (f *fakeMedia) ExtractAudio(ctx context.Context, videoPath, audioPath string) error {
	return nil
}

func (f *fakeMedia) Probe(ctx context.Context, path string) (media.Asset, error) {
	if f.probeErr != nil {
		return media.Asset{}, f.probeErr
	}
	a := f.asset
	a.Path = path
	return a, nil
}

func (f *fakeMedia) Export(ctx context.Context, asset media.Asset, startMs, endMs int64, outPath string) error {
	f.mu.Lock()
	f.exports = append(f.exports, Interval{startMs, endMs})
	f.mu.Unlock()

	if err := f.exportErr[startMs]; err != nil {
		return err
	}
	payload := strconv.FormatInt(startMs, 10)
	if pad := f.chunkSize - len(payload); pad > 0 {
		payload += strings.Repeat(" ", pad)
	}
	return os.WriteFile(outPath, []byte(payload), 0644)
}

type fakeSpeech struct {
	fail     map[string]error
	maxDelay time.Duration
	rng      *rand.Rand

	mu       sync.Mutex
	paths    []string
	liveDirs []int
}

func (f *fakeSpeech) Transcribe(ctx context.Context, path, language string) (string, error) {
	f.mu.Lock()
	f.paths = append(f.paths, path)
	entries, _ := os.ReadDir(filepath.Dir(path))
	f.liveDirs = append(f.liveDirs, len(entries))
	var delay time.Duration
	if f.maxDelay > 0 {
		delay = time.Duration(f.rng.Int63n(int64(f.maxDelay)))
	}
	f.mu.Unlock()

	time.Sleep(delay)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	key := strings.TrimSpace(string(data))
	if err := f.fail[key]; err != nil {
		return "", err
	}
	return "text@" + key, nil
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (l *recordingLogger) Info(ctx context.Context, msg string, args ...any)  {}
func (l *recordingLogger) Error(ctx context.Context, msg string, args ...any) {}

func (l *recordingLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprintf(msg, args...))
}

func newRequest(t *testing.T) Request {
	t.Helper()
	dir := t.TempDir()
	return Request{
		AudioPath:    filepath.Join(dir, "audio.mp3"),
		OutputPath:   filepath.Join(dir, "out", "transcript.txt"),
		Language:     "pt",
		CeilingBytes: 25 * mb,
		MinChunkMs:   100,
		WorkDir:      dir,
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestTranscribeSplitsOversizedAudio(t *testing.T) {
	m := &fakeMedia{asset: media.Asset{DurationMs: 1_000_000, SizeBytes: 100 * mb}}
	s := &fakeSpeech{}
	d := New(m, s, logger.Nop())
	req := newRequest(t)

	var progress []Progress
	req.Observer = ObserverFunc(func(p Progress) { progress = append(progress, p) })

	res, err := d.Transcribe(context.Background(), req)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	want := "text@0\ntext@200000\ntext@400000\ntext@600000\ntext@800000\n"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if got := readFile(t, res.OutputPath); got != want {
		t.Errorf("persisted %q, want %q", got, want)
	}
	if res.OutputPath != req.OutputPath {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, req.OutputPath)
	}
	if len(m.exports) != 5 {
		t.Errorf("exports = %v, want 5", m.exports)
	}

	if len(progress) != 5 {
		t.Fatalf("progress notifications = %d, want 5", len(progress))
	}
	for i, p := range progress {
		if p.Completed != i+1 || p.Total != 5 || p.Ordinal != i {
			t.Errorf("progress[%d] = %+v", i, p)
		}
	}
	if progress[4].Fraction() != 1 {
		t.Errorf("final fraction = %v, want 1", progress[4].Fraction())
	}
}

func TestTranscribeRemovesEachChunk(t *testing.T) {
	m := &fakeMedia{asset: media.Asset{DurationMs: 1_000_000, SizeBytes: 100 * mb}}
	s := &fakeSpeech{}
	d := New(m, s, logger.Nop())
	req := newRequest(t)

	if _, err := d.Transcribe(context.Background(), req); err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	for i, live := range s.liveDirs {
		if live != 1 {
			t.Errorf("call %d saw %d chunk files, want only the current one", i, live)
		}
	}
	for _, p := range s.paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("chunk %s still exists", p)
		}
	}
	if _, err := os.Stat(filepath.Dir(s.paths[0])); !os.IsNotExist(err) {
		t.Errorf("chunk dir not removed")
	}
}

func TestTranscribeOversizeChunkIsNotResplit(t *testing.T) {
	m := &fakeMedia{
		asset:     media.Asset{DurationMs: 30_000, SizeBytes: 3_000},
		chunkSize: 1_500,
	}
	s := &fakeSpeech{}
	log := &recordingLogger{}
	d := New(m, s, log)
	req := newRequest(t)
	req.CeilingBytes = 1_000

	res, err := d.Transcribe(context.Background(), req)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	wantIntervals := []Interval{{0, 7_500}, {7_500, 15_000}, {15_000, 22_500}, {22_500, 30_000}}
	if len(m.exports) != len(wantIntervals) {
		t.Fatalf("exports = %v, want %v", m.exports, wantIntervals)
	}
	for i, iv := range wantIntervals {
		if m.exports[i] != iv {
			t.Errorf("export %d = %v, want %v", i, m.exports[i], iv)
		}
	}
	if len(s.paths) != 4 || res.Failed != 0 {
		t.Errorf("speech calls = %d, failed = %d, want 4 and 0", len(s.paths), res.Failed)
	}
	if res.Text != "text@0\ntext@7500\ntext@15000\ntext@22500\n" {
		t.Errorf("Text = %q", res.Text)
	}

	oversize := 0
	for _, w := range log.warns {
		if strings.Contains(w, "above the 1000 byte limit") {
			oversize++
		}
	}
	if oversize != 4 {
		t.Errorf("oversize warnings = %d, want 4 (%v)", oversize, log.warns)
	}
}

func TestTranscribeWholeFile(t *testing.T) {
	m := &fakeMedia{asset: media.Asset{DurationMs: 50, SizeBytes: 1024}}
	s := &fakeSpeech{}
	d := New(m, s, logger.Nop())
	req := newRequest(t)
	if err := os.WriteFile(req.AudioPath, []byte("whole"), 0644); err != nil {
		t.Fatal(err)
	}

	var calls int
	req.Observer = ObserverFunc(func(p Progress) {
		calls++
		if p.Fraction() != 1 {
			t.Errorf("fraction = %v, want 1", p.Fraction())
		}
	})

	res, err := d.Transcribe(context.Background(), req)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(m.exports) != 0 {
		t.Errorf("whole file was exported: %v", m.exports)
	}
	if len(s.paths) != 1 || s.paths[0] != req.AudioPath {
		t.Errorf("speech calls = %v, want the source file", s.paths)
	}
	if res.Text != "text@whole\n" {
		t.Errorf("Text = %q", res.Text)
	}
	if !res.Plan.Whole || len(res.Segments) != 1 || res.Segments[0].Interval != (Interval{0, 50}) {
		t.Errorf("result = %+v, want one whole segment", res)
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		t.Errorf("source audio removed: %v", err)
	}
	if calls != 1 {
		t.Errorf("observer calls = %d, want 1", calls)
	}
}

func TestTranscribeRecoversFromChunkFailure(t *testing.T) {
	m := &fakeMedia{asset: media.Asset{DurationMs: 1_000_000, SizeBytes: 100 * mb}}
	s := &fakeSpeech{fail: map[string]error{
		"400000": errors.New("remote 500"),
	}}
	d := New(m, s, logger.Nop())

	res, err := d.Transcribe(context.Background(), newRequest(t))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	want := "text@0\ntext@200000\n\ntext@600000\ntext@800000\n"
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	if res.Failed != 1 {
		t.Errorf("Failed = %d, want 1", res.Failed)
	}
	if res.Segments[2].Err == nil {
		t.Errorf("segment 2 should carry its error")
	}
}

func TestTranscribeTooShortIsRecovered(t *testing.T) {
	m := &fakeMedia{asset: media.Asset{DurationMs: 1_000_000, SizeBytes: 100 * mb}}
	s := &fakeSpeech{fail: map[string]error{
		"0": fmt.Errorf("%w: header only", speech.ErrPayloadTooShort),
	}}
	d := New(m, s, logger.Nop())

	res, err := d.Transcribe(context.Background(), newRequest(t))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if !strings.HasPrefix(res.Text, "\ntext@200000\n") {
		t.Errorf("Text = %q, want empty first line", res.Text)
	}
}

func TestTranscribeOrderingUnderDelays(t *testing.T) {
	m := &fakeMedia{asset: media.Asset{DurationMs: 600_000, SizeBytes: 200 * mb}}
	s := &fakeSpeech{
		maxDelay: 5 * time.Millisecond,
		rng:      rand.New(rand.NewSource(7)),
		fail:     map[string]error{"66666": errors.New("flaky"), "466662": errors.New("flaky")},
	}
	d := New(m, s, logger.Nop())

	res, err := d.Transcribe(context.Background(), newRequest(t))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}

	var prev int64 = -1
	for i, seg := range res.Segments {
		if seg.Ordinal != i {
			t.Errorf("segment %d has ordinal %d", i, seg.Ordinal)
		}
		if seg.Interval.Start <= prev {
			t.Errorf("segment %d starts at %d, not after %d", i, seg.Interval.Start, prev)
		}
		prev = seg.Interval.Start
	}

	lines := strings.Split(strings.TrimSuffix(res.Text, "\n"), "\n")
	if len(lines) != len(res.Segments) {
		t.Fatalf("%d lines for %d segments", len(lines), len(res.Segments))
	}
	for i, seg := range res.Segments {
		want := "text@" + strconv.FormatInt(seg.Interval.Start, 10)
		if seg.Err != nil {
			want = ""
		}
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestTranscribeEmptyAsset(t *testing.T) {
	tests := []struct {
		name  string
		asset media.Asset
	}{
		{"zero bytes", media.Asset{}},
		{"zero duration", media.Asset{SizeBytes: 30 * mb}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSpeech{}
			d := New(&fakeMedia{asset: tt.asset}, s, logger.Nop())
			req := newRequest(t)

			res, err := d.Transcribe(context.Background(), req)
			if err != nil {
				t.Fatalf("Transcribe() error = %v", err)
			}
			if res.Text != "" || len(res.Segments) != 0 {
				t.Errorf("result = %+v, want empty transcript", res)
			}
			if got := readFile(t, req.OutputPath); got != "" {
				t.Errorf("persisted %q, want empty", got)
			}
			if len(s.paths) != 0 {
				t.Errorf("speech called for empty asset")
			}
		})
	}
}

func TestTranscribeAllChunksBelowFloor(t *testing.T) {
	m := &fakeMedia{asset: media.Asset{DurationMs: 1_000, SizeBytes: 100 * mb}}
	s := &fakeSpeech{}
	d := New(m, s, logger.Nop())
	req := newRequest(t)
	req.MinChunkMs = 500

	res, err := d.Transcribe(context.Background(), req)
	if err != nil {
		t.Fatalf("Transcribe() error = %v, want degenerate but successful", err)
	}
	if res.Text != "" {
		t.Errorf("Text = %q, want empty", res.Text)
	}
	if res.Plan.Dropped != 5 {
		t.Errorf("Dropped = %d, want 5", res.Plan.Dropped)
	}
	if len(m.exports) != 0 || len(s.paths) != 0 {
		t.Errorf("dropped chunks were exported or transcribed")
	}
}

func TestTranscribeShortChunksNeverExported(t *testing.T) {
	m := &fakeMedia{asset: media.Asset{DurationMs: 1_000, SizeBytes: 60 * mb}}
	d := New(m, &fakeSpeech{}, logger.Nop())

	res, err := d.Transcribe(context.Background(), newRequest(t))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	for _, iv := range m.exports {
		if iv.Duration() < 100 {
			t.Errorf("exported %v below the floor", iv)
		}
	}
	if len(res.Segments) != 3 {
		t.Errorf("segments = %d, want 3", len(res.Segments))
	}
}

func TestTranscribeAssetUnreadable(t *testing.T) {
	d := New(&fakeMedia{probeErr: errors.New("moov atom not found")}, &fakeSpeech{}, logger.Nop())
	req := newRequest(t)

	_, err := d.Transcribe(context.Background(), req)
	if !errors.Is(err, ErrAssetUnreadable) {
		t.Fatalf("error = %v, want ErrAssetUnreadable", err)
	}
	if _, err := os.Stat(req.OutputPath); !os.IsNotExist(err) {
		t.Errorf("partial transcript written")
	}
}

func TestTranscribeSplitFailed(t *testing.T) {
	m := &fakeMedia{
		asset:     media.Asset{DurationMs: 30_000, SizeBytes: 50 * mb},
		exportErr: map[int64]error{0: errors.New("x"), 10_000: errors.New("x"), 20_000: errors.New("x")},
	}
	s := &fakeSpeech{}
	d := New(m, s, logger.Nop())

	_, err := d.Transcribe(context.Background(), newRequest(t))
	if !errors.Is(err, ErrSplitFailed) {
		t.Fatalf("error = %v, want ErrSplitFailed", err)
	}
	if len(s.paths) != 0 {
		t.Errorf("speech called without exported chunks")
	}
}

func TestTranscribePartialExportFailure(t *testing.T) {
	m := &fakeMedia{
		asset:     media.Asset{DurationMs: 30_000, SizeBytes: 50 * mb},
		exportErr: map[int64]error{10_000: errors.New("encoder crashed")},
	}
	d := New(m, &fakeSpeech{}, logger.Nop())

	res, err := d.Transcribe(context.Background(), newRequest(t))
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if res.Text != "text@0\n\ntext@20000\n" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Failed != 1 {
		t.Errorf("Failed = %d, want 1", res.Failed)
	}
}

func TestTranscribeInvalidRequest(t *testing.T) {
	d := New(&fakeMedia{}, &fakeSpeech{}, logger.Nop())

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"zero ceiling", func(r *Request) { r.CeilingBytes = 0 }},
		{"zero floor", func(r *Request) { r.MinChunkMs = 0 }},
		{"no audio", func(r *Request) { r.AudioPath = "" }},
		{"no output", func(r *Request) { r.OutputPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t)
			tt.mutate(&req)
			if _, err := d.Transcribe(context.Background(), req); err == nil {
				t.Error("Transcribe() should reject the request")
			}
		})
	}
}

func TestTranscribeStopsWhenCancelled(t *testing.T) {
	m := &fakeMedia{asset: media.Asset{DurationMs: 1_000_000, SizeBytes: 100 * mb}}
	d := New(m, &fakeSpeech{}, logger.Nop())
	req := newRequest(t)

	ctx, cancel := context.WithCancel(context.Background())
	req.Observer = ObserverFunc(func(p Progress) {
		if p.Completed == 2 {
			cancel()
		}
	})

	_, err := d.Transcribe(ctx, req)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(m.exports) != 2 {
		t.Errorf("exports = %d, want 2", len(m.exports))
	}
}
