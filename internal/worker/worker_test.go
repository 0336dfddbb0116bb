package worker_test

import (
	"context"
	"errors"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"

	"dojo.app/platform/internal/queue"
	"dojo.app/platform/internal/service"
	"dojo.app/platform/internal/worker"
)

func welcomeMessage(id string, attempt int) queue.Message {
	return queue.Message{
		ID:             id,
		TaskType:       queue.TaskTypeWelcome,
		OrganizationID: 1,
		SchoolID:       2,
		UserID:         3,
		Email:          "owner@tigerdojo.com",
		Attempt:        attempt,
	}
}

var _ = Describe("Worker", func() {
	var (
		ctx        context.Context
		consumer   *mockConsumer
		onboarding *mockOnboarding
		w          *worker.Worker
	)

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &mockConsumer{}
		onboarding = &mockOnboarding{}
		w = worker.New(consumer, map[queue.TaskType]worker.TaskHandler{
			queue.TaskTypeWelcome: worker.WelcomeHandler(onboarding),
		}, worker.Config{MaxAttempts: 3})
	})

	It("runs onboarding and acks welcome tasks", func() {
		w.HandleMessage(ctx, welcomeMessage("1-0", 1))

		acked, requeued, dlq := consumer.snapshot()
		Expect(acked).To(ConsistOf("1-0"))
		Expect(requeued).To(BeEmpty())
		Expect(dlq).To(BeEmpty())
		Expect(onboarding.tasks).To(ConsistOf(service.WelcomeTask{
			OrganizationID: 1, SchoolID: 2, UserID: 3, Email: "owner@tigerdojo.com",
		}))
	})

	It("requeues failures below the attempt limit", func() {
		onboarding.welcomeFn = func(context.Context, service.WelcomeTask) error {
			return errors.New("db down")
		}

		w.HandleMessage(ctx, welcomeMessage("1-0", 1))

		acked, requeued, dlq := consumer.snapshot()
		Expect(acked).To(BeEmpty())
		Expect(requeued).To(ConsistOf("1-0"))
		Expect(dlq).To(BeEmpty())
	})

	It("dead-letters failures at the attempt limit", func() {
		onboarding.welcomeFn = func(context.Context, service.WelcomeTask) error {
			return errors.New("db down")
		}

		w.HandleMessage(ctx, welcomeMessage("1-0", 3))

		_, requeued, dlq := consumer.snapshot()
		Expect(requeued).To(BeEmpty())
		Expect(dlq).To(ConsistOf("1-0"))
	})

	It("recovers from handler panics", func() {
		onboarding.welcomeFn = func(context.Context, service.WelcomeTask) error {
			panic("nil map")
		}

		Expect(func() { w.HandleMessage(ctx, welcomeMessage("1-0", 1)) }).NotTo(Panic())
		_, requeued, _ := consumer.snapshot()
		Expect(requeued).To(ConsistOf("1-0"))
	})

	It("fails messages without a handler", func() {
		msg := welcomeMessage("1-0", 3)
		msg.TaskType = "invoice"

		w.HandleMessage(ctx, msg)

		_, _, dlq := consumer.snapshot()
		Expect(dlq).To(ConsistOf("1-0"))
	})

	It("drains batches until stopped", func() {
		consumer.batches = [][]queue.Message{
			{welcomeMessage("1-0", 1), welcomeMessage("2-0", 1)},
		}

		done := make(chan error, 1)
		go func() { done <- w.Run(ctx) }()

		Eventually(func() []string {
			acked, _, _ := consumer.snapshot()
			return acked
		}).Should(ConsistOf("1-0", "2-0"))

		w.Stop()
		Eventually(done).Should(Receive(BeNil()))
	})
})

var _ = Describe("RedisReclaimer", func() {
	It("claims stale pending messages and hands them to the processor", func() {
		ctx := context.Background()
		mr := miniredis.RunT(GinkgoT())
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		DeferCleanup(client.Close)

		cfg := queue.ConsumerConfig{
			Stream:    "dojo_tasks",
			Group:     "dojo_workers",
			Consumer:  "worker-crashed",
			DLQStream: "dojo_tasks_dlq",
			BatchSize: 10,
			Block:     10 * time.Millisecond,
		}
		consumer, err := queue.NewRedisConsumer(client, cfg)
		Expect(err).NotTo(HaveOccurred())

		producer := queue.NewRedisProducer(client, cfg.Stream, nil)
		Expect(producer.Enqueue(ctx, queue.Task{TaskType: queue.TaskTypeWelcome, OrganizationID: 1, SchoolID: 2, UserID: 3})).To(Succeed())

		// read without ack, as a worker that crashed mid-task would
		msgs, err := consumer.Read(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(msgs).To(HaveLen(1))

		var processed []queue.Message
		reclaimer := worker.NewRedisReclaimer(client, worker.RedisReclaimerConfig{
			Stream:    cfg.Stream,
			Group:     cfg.Group,
			Consumer:  "worker-rescuer",
			MinIdle:   0,
			Interval:  time.Minute,
			BatchSize: 10,
		}, consumer, func(ctx context.Context, msg queue.Message) {
			processed = append(processed, msg)
			Expect(consumer.Ack(ctx, msg)).To(Succeed())
		})

		n, err := reclaimer.ReclaimOnce(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(1))
		Expect(processed).To(HaveLen(1))
		Expect(processed[0].UserID).To(Equal(int64(3)))

		n, err = reclaimer.ReclaimOnce(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
	})
})

var _ = Describe("TrialSweeper", func() {
	It("sweeps immediately and on every tick", func() {
		expirer := &mockExpirer{n: 2}
		sweeper := worker.NewTrialSweeper(expirer, 10*time.Millisecond)

		go sweeper.Run(context.Background())
		Eventually(expirer.callCount).Should(BeNumerically(">=", 2))
		sweeper.Stop()
	})

	It("swallows sweep errors", func() {
		expirer := &mockExpirer{err: errors.New("timeout")}
		sweeper := worker.NewTrialSweeper(expirer, time.Hour)

		Expect(sweeper.SweepOnce(context.Background())).To(BeZero())
		Expect(expirer.callCount()).To(Equal(1))
	})
})
