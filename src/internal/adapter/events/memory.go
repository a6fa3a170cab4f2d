package events

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/finpay/payments/src/internal/domain"
)

// MemoryLog is an in-process stand-in for the partitioned event log: an
// append-only set of partitions where the partition for a record is chosen by
// hashing its key. Used by tests and broker-less development runs.
type MemoryLog struct {
	mu         sync.Mutex
	partitions [][]domain.TransactionCreatedEvent
}

func NewMemoryLog(partitionCount int) *MemoryLog {
	if partitionCount <= 0 {
		partitionCount = 1
	}
	return &MemoryLog{
		partitions: make([][]domain.TransactionCreatedEvent, partitionCount),
	}
}

func (l *MemoryLog) PublishTransactionCreated(_ context.Context, event domain.TransactionCreatedEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.partitionFor(event.ID)
	l.partitions[p] = append(l.partitions[p], event)
	return nil
}

// Partition returns a copy of the partition a key maps to, in append order.
func (l *MemoryLog) Partition(key string) []domain.TransactionCreatedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	p := l.partitions[l.partitionFor(key)]
	out := make([]domain.TransactionCreatedEvent, len(p))
	copy(out, p)
	return out
}

// All returns every event across partitions; test hook.
func (l *MemoryLog) All() []domain.TransactionCreatedEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []domain.TransactionCreatedEvent
	for _, p := range l.partitions {
		out = append(out, p...)
	}
	return out
}

func (l *MemoryLog) partitionFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(l.partitions)))
}
