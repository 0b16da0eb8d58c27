package ingest

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"pawfeed/models"
)

// ParallelProcessor fans submitted posts out to a pool of workers.
type ParallelProcessor struct {
	maxWorkers int
	Queue      chan models.Post
	processors []*PostProcessor
	wg         sync.WaitGroup
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewParallelProcessor(ctx context.Context, maxWorkers int, maxQueueSize int, config Config, postChan chan<- interface{}) *ParallelProcessor {
	ctx, cancel := context.WithCancel(ctx)

	pp := &ParallelProcessor{
		maxWorkers: maxWorkers,
		Queue:      make(chan models.Post, maxQueueSize),
		processors: make([]*PostProcessor, maxWorkers),
		ctx:        ctx,
		cancel:     cancel,
	}

	for i := 0; i < maxWorkers; i++ {
		pp.processors[i] = NewPostProcessor(ctx, config, postChan)
	}

	return pp
}

// Submit enqueues a post without blocking; it reports false when the queue
// is full.
func (pp *ParallelProcessor) Submit(post models.Post) bool {
	select {
	case pp.Queue <- post:
		queueDepth.Set(float64(len(pp.Queue)))
		return true
	default:
		postsRejected.WithLabelValues("queue_full").Inc()
		return false
	}
}

func (pp *ParallelProcessor) Start() {
	for i, processor := range pp.processors {
		go pp.startWorker(i, processor)
	}
}

func (pp *ParallelProcessor) Shutdown() {
	pp.cancel()
	pp.wg.Wait()
}

func (pp *ParallelProcessor) startWorker(id int, processor *PostProcessor) {
	pp.wg.Add(1)
	defer pp.wg.Done()

	for {
		select {
		case <-pp.ctx.Done():
			log.Infof("Worker %d: Shutting down", id)
			return
		case post := <-pp.Queue:
			queueDepth.Set(float64(len(pp.Queue)))
			if err := processor.processPost(post); err != nil {
				log.Errorf("Worker %d: Error processing post: %v", id, err)
			}
		}
	}
}
