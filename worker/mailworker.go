package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/ieee-vbit/registration-backend-go/models"
	"github.com/ieee-vbit/registration-backend-go/registration"
	utils "github.com/ieee-vbit/registration-backend-go/utils"
)

// SendFunc delivers one composed mail to its recipients.
type SendFunc func(to []string, subject, html string) error

// MailWorker is the dispatcher behind the per-event mail collections:
// registration and verification flows only insert MailTask documents,
// and the worker sweeps every event's mail collection on an interval,
// sending each undispatched task. Inactive events are swept too, so a
// confirmation queued for a since-deactivated event still goes out.
// Delivery is best effort; a failed send is logged and picked up again
// on the next sweep.
type MailWorker struct {
	DB       *mongo.Database
	Interval time.Duration
	Send     SendFunc
	Log      zerolog.Logger

	done   chan struct{}
	cancel context.CancelFunc
}

func NewMailWorker(db *mongo.Database, interval time.Duration, log zerolog.Logger) *MailWorker {
	return &MailWorker{
		DB:       db,
		Interval: interval,
		Send:     utils.SendEmail,
		Log:      log,
		done:     make(chan struct{}),
	}
}

func (w *MailWorker) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.Log.Info().Dur("interval", w.Interval).Msg("mail dispatcher started")

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-cctx.Done():
				w.Log.Info().Msg("mail dispatcher stopped")
				return
			case <-ticker.C:
				w.sweep(cctx)
			}
		}
	}()
}

func (w *MailWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

func (w *MailWorker) sweep(ctx context.Context) {
	sctx, cancel := context.WithTimeout(ctx, w.Interval)
	defer cancel()

	cursor, err := w.DB.Collection("events").Find(sctx, bson.M{})
	if err != nil {
		w.Log.Error().Err(err).Msg("could not load events")
		return
	}
	var events []models.Event
	if err := cursor.All(sctx, &events); err != nil {
		w.Log.Error().Err(err).Msg("could not decode events")
		return
	}

	for _, name := range mailCollections(events) {
		w.sweepCollection(sctx, name)
	}
}

// mailCollections names the mail collection of every known event,
// active or not, deduped in event order.
func mailCollections(events []models.Event) []string {
	seen := map[string]bool{}
	var names []string
	for i := range events {
		name := registration.MailCollectionFor(&events[i])
		if name == "Mails" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func (w *MailWorker) sweepCollection(sctx context.Context, name string) {
	col := w.DB.Collection(name)
	cursor, err := col.Find(sctx, bson.M{"dispatched": false})
	if err != nil {
		w.Log.Error().Err(err).Str("collection", name).Msg("could not fetch pending mail tasks")
		return
	}

	var tasks []models.MailTask
	if err := cursor.All(sctx, &tasks); err != nil {
		w.Log.Error().Err(err).Str("collection", name).Msg("could not decode pending mail tasks")
		return
	}

	for _, task := range tasks {
		if err := w.Send(task.To, task.Message.Subject, task.Message.HTML); err != nil {
			w.Log.Warn().Err(err).Strs("to", task.To).Msg("mail send failed, will retry next sweep")
			continue
		}
		now := time.Now()
		_, err := col.UpdateOne(sctx,
			bson.M{"_id": task.ID},
			bson.M{"$set": bson.M{"dispatched": true, "dispatchedAt": now}},
		)
		if err != nil {
			w.Log.Error().Err(err).Msg("could not mark mail task dispatched")
		}
	}
}
