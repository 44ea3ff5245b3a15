package unit

import (
	"context"
	"errors"
	"testing"

	votingengine "quorum/contexts/knowledge-base/voting-engine"
	"quorum/contexts/knowledge-base/voting-engine/application/workers"
	"quorum/contexts/knowledge-base/voting-engine/ports"
)

type recordingPublisher struct {
	published []ports.EventEnvelope
	topics    []string
	fail      bool
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	if p.fail {
		return errors.New("bus unavailable")
	}
	p.published = append(p.published, event)
	p.topics = append(p.topics, topic)
	return nil
}

func TestOutboxRelayPublishesPendingRows(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "author-1")

	if _, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("up")); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	publisher := &recordingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay failed: %v", err)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.published))
	}
	if publisher.topics[0] != "vote.applied" {
		t.Fatalf("expected topic vote.applied, got %s", publisher.topics[0])
	}

	// Re-running finds nothing pending.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay run failed: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("published rows must not be re-delivered, got %d", len(publisher.published))
	}
}

func TestOutboxRelayKeepsRowsOnPublishFailure(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "author-1")

	if _, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("up")); err != nil {
		t.Fatalf("vote failed: %v", err)
	}

	publisher := &recordingPublisher{fail: true}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
		Clock:     module.Store,
	}
	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatalf("expected relay to surface publish failure")
	}

	pending, err := module.Store.ListPendingOutbox(context.Background(), 10)
	if err != nil {
		t.Fatalf("list pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("failed publish must leave the row pending, got %d", len(pending))
	}

	publisher.fail = false
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry relay failed: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected the row delivered on retry, got %d", len(publisher.published))
	}
}
