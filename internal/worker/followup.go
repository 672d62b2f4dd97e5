// Package worker runs the background loops behind the outreach pipeline.
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ignite/club-outreach/internal/domain"
	"github.com/ignite/club-outreach/internal/status"
)

// DefaultSweepInterval is how often the follow-up sweep runs.
const DefaultSweepInterval = 1 * time.Hour

// Notifier is the slice of the notification center the worker needs.
type Notifier interface {
	Emit(ctx context.Context, clubName string, stage domain.Stage, kind domain.NotificationKind, message string) (domain.Notification, error)
}

// ReplyChecker polls the mail provider for new replies.
type ReplyChecker interface {
	CheckNewReplies(ctx context.Context) (int, error)
}

// FollowUpWorker periodically scans for clubs whose last email has waited past
// the follow-up threshold and surfaces them as notifications. It also drives
// reply polling when a checker is configured.
type FollowUpWorker struct {
	tracker   *status.Service
	notifier  Notifier
	replies   ReplyChecker // optional
	threshold time.Duration
	interval  time.Duration

	// emitted dedupes follow_up_due per (club, stage, sent_at) so a club is
	// flagged once per send, not once per sweep.
	emitted map[string]struct{}

	followUpsFound int64
	repliesFound   int64

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

// NewFollowUpWorker creates the sweep worker. replies may be nil.
func NewFollowUpWorker(tracker *status.Service, notifier Notifier, replies ReplyChecker, threshold, interval time.Duration) *FollowUpWorker {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &FollowUpWorker{
		tracker:   tracker,
		notifier:  notifier,
		replies:   replies,
		threshold: threshold,
		interval:  interval,
		emitted:   make(map[string]struct{}),
	}
}

// Start begins the sweep loop.
func (w *FollowUpWorker) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("follow-up worker already running")
	}
	w.running = true
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.mu.Unlock()

	log.Printf("[followup] starting with threshold %v, sweep interval %v", w.threshold, w.interval)

	w.wg.Add(1)
	go w.sweepLoop()
	return nil
}

// Stop gracefully stops the worker.
func (w *FollowUpWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	log.Printf("[followup] stopping...")
	w.cancel()
	w.wg.Wait()
	log.Printf("[followup] stopped. Follow-ups flagged: %d, replies recorded: %d",
		atomic.LoadInt64(&w.followUpsFound), atomic.LoadInt64(&w.repliesFound))
}

func (w *FollowUpWorker) sweepLoop() {
	defer w.wg.Done()

	// First sweep right away so a restart doesn't delay notifications by a
	// full interval.
	w.Sweep(w.ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.Sweep(w.ctx)
		}
	}
}

// Sweep runs one pass: poll replies, then flag stale sends.
func (w *FollowUpWorker) Sweep(ctx context.Context) {
	if w.replies != nil {
		n, err := w.replies.CheckNewReplies(ctx)
		if err != nil {
			log.Printf("[followup] reply check failed: %v", err)
		} else if n > 0 {
			atomic.AddInt64(&w.repliesFound, int64(n))
			log.Printf("[followup] recorded %d new replies", n)
		}
	}

	followUps, err := w.tracker.ListNeedingFollowUp(ctx, w.threshold)
	if err != nil {
		log.Printf("[followup] sweep failed: %v", err)
		return
	}

	for _, f := range followUps {
		key := fmt.Sprintf("%s|%s|%d", f.ClubName, f.Stage, f.SentAt.Unix())
		if _, seen := w.emitted[key]; seen {
			continue
		}
		_, err := w.notifier.Emit(ctx, f.ClubName, f.Stage, domain.NotificationFollowUpDue,
			fmt.Sprintf("Follow-up due for %s: %s email sent %d days ago with no reply", f.ClubName, f.Stage, f.DaysSinceSent))
		if err != nil {
			log.Printf("[followup] emit for %s/%s: %v", f.ClubName, f.Stage, err)
			continue
		}
		w.emitted[key] = struct{}{}
		atomic.AddInt64(&w.followUpsFound, 1)
	}
}
