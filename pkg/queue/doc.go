// Package queue runs background jobs.
//
// A Dispatcher serialises a payload to JSON and pushes a Job into a Storage,
// either for immediate processing (Push) or after a delay (Later). A Worker
// polls the storage, reserves jobs for a lease period and calls the Handler
// registered under the job's name. Failed jobs are released with linear backoff
// until MaxAttempts is reached, then buried in the failed list.
//
// Handlers are usually derived from the payload type:
//
//	type SendWelcome struct{ UserID string }
//
//	worker.Register(queue.NewHandler(func(ctx context.Context, job SendWelcome) error {
//		return mailer.Welcome(ctx, job.UserID)
//	}))
//	dispatcher.Push(ctx, SendWelcome{UserID: "42"})
//
// A Scheduler built on github.com/robfig/cron/v3 pushes jobs or calls functions
// on cron expressions.
//
// MemoryStorage is the only Storage in this package. Expired reservations are
// returned to the queue the next time a worker reserves.
package queue
