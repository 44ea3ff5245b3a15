package unit

import (
	"context"
	"errors"
	"testing"

	votingengine "quorum/contexts/knowledge-base/voting-engine"
	"quorum/contexts/knowledge-base/voting-engine/domain/entities"
	domainerrors "quorum/contexts/knowledge-base/voting-engine/domain/errors"
	httptransport "quorum/contexts/knowledge-base/voting-engine/transport/http"
)

func voteReq(action string) httptransport.VoteRequest {
	return httptransport.VoteRequest{VoteType: action}
}

func TestVoteQuestionUpIdempotentAndRemove(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "author-1")
	module.Store.SetReputation("author-1", 0)

	first, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("up"))
	if err != nil {
		t.Fatalf("upvote failed: %v", err)
	}
	if first.Votes != 1 {
		t.Fatalf("expected score 1 after upvote, got %d", first.Votes)
	}
	if got := module.Store.ReputationOf("author-1"); got != 5 {
		t.Fatalf("expected author reputation 5, got %d", got)
	}
	if got := len(module.Store.Notifications()); got != 1 {
		t.Fatalf("expected one notification, got %d", got)
	}

	second, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("up"))
	if err != nil {
		t.Fatalf("repeat upvote failed: %v", err)
	}
	if second.Votes != 1 {
		t.Fatalf("expected score to stay 1 on repeat upvote, got %d", second.Votes)
	}
	if got := module.Store.ReputationOf("author-1"); got != 5 {
		t.Fatalf("repeat upvote must not re-apply delta, reputation %d", got)
	}
	if got := len(module.Store.Notifications()); got != 1 {
		t.Fatalf("repeat upvote must not notify again, got %d notifications", got)
	}

	removed, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("remove"))
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if removed.Votes != 0 {
		t.Fatalf("expected score 0 after remove, got %d", removed.Votes)
	}
	if got := module.Store.ReputationOf("author-1"); got != 0 {
		t.Fatalf("remove must reverse the +5, reputation %d", got)
	}
	if got := len(module.Store.Notifications()); got != 1 {
		t.Fatalf("remove must never notify, got %d notifications", got)
	}
}

func TestVoteRemoveWithoutPriorVoteIsNoop(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "author-1")

	resp, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("remove"))
	if err != nil {
		t.Fatalf("remove without prior vote failed: %v", err)
	}
	if resp.Votes != 0 {
		t.Fatalf("expected score 0, got %d", resp.Votes)
	}
	if got := module.Store.ReputationOf("author-1"); got != 0 {
		t.Fatalf("expected no reputation change, got %d", got)
	}
	if got := len(module.Store.Notifications()); got != 0 {
		t.Fatalf("expected no notification, got %d", got)
	}
}

func TestSelfVoteRejected(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "author-1")

	for _, action := range []string{"up", "down", "remove"} {
		_, err := module.Handler.VoteQuestionHandler(context.Background(), "author-1", "question-1", voteReq(action))
		if !errors.Is(err, domainerrors.ErrSelfVoteForbidden) {
			t.Fatalf("action %q: expected self-vote rejection, got %v", action, err)
		}
	}
	votable, ok := module.Store.Votable(entities.VotableKindQuestion, "question-1")
	if !ok {
		t.Fatalf("question votable missing")
	}
	if votable.Score != 0 || len(votable.Upvoters) != 0 || len(votable.Downvoters) != 0 {
		t.Fatalf("self-vote must not mutate the ledger: %+v", votable)
	}
	if got := module.Store.ReputationOf("author-1"); got != 0 {
		t.Fatalf("self-vote must not change reputation, got %d", got)
	}
}

func TestSwitchDownToUpDoesNotRefund(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedAnswer("answer-1", "question-1", "author-1")
	module.Store.SetReputation("author-1", 0)

	if _, err := module.Handler.VoteAnswerHandler(context.Background(), "voter-1", "answer-1", voteReq("down")); err != nil {
		t.Fatalf("downvote failed: %v", err)
	}
	if got := module.Store.ReputationOf("author-1"); got != -2 {
		t.Fatalf("expected reputation -2 after downvote, got %d", got)
	}

	resp, err := module.Handler.VoteAnswerHandler(context.Background(), "voter-1", "answer-1", voteReq("up"))
	if err != nil {
		t.Fatalf("switch to upvote failed: %v", err)
	}
	if resp.Votes != 1 {
		t.Fatalf("expected score 1 after switch, got %d", resp.Votes)
	}
	// Switch applies only the new +10; the earlier -2 is not refunded.
	if got := module.Store.ReputationOf("author-1"); got != 8 {
		t.Fatalf("expected reputation 8 after switch, got %d", got)
	}

	votable, _ := module.Store.Votable(entities.VotableKindAnswer, "answer-1")
	if len(votable.Upvoters) != 1 || len(votable.Downvoters) != 0 {
		t.Fatalf("switch must move the voter between sets: %+v", votable)
	}
}

func TestVoteLedgerInvariantsOverSequences(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "author-1")

	voters := []string{"voter-1", "voter-2", "voter-3"}
	actions := []string{"up", "down", "up", "remove", "down", "down", "up", "remove", "up"}
	for i, action := range actions {
		actor := voters[i%len(voters)]
		if _, err := module.Handler.VoteQuestionHandler(context.Background(), actor, "question-1", voteReq(action)); err != nil {
			t.Fatalf("vote %d (%s by %s) failed: %v", i, action, actor, err)
		}

		votable, _ := module.Store.Votable(entities.VotableKindQuestion, "question-1")
		if votable.Score != len(votable.Upvoters)-len(votable.Downvoters) {
			t.Fatalf("score %d does not match ledger |up|=%d |down|=%d",
				votable.Score, len(votable.Upvoters), len(votable.Downvoters))
		}
		for _, up := range votable.Upvoters {
			for _, down := range votable.Downvoters {
				if up == down {
					t.Fatalf("voter %s present in both sets", up)
				}
			}
		}
	}
}

func TestVoteMissingTarget(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)

	_, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "missing", voteReq("up"))
	if !errors.Is(err, domainerrors.ErrTargetNotFound) {
		t.Fatalf("expected target not found, got %v", err)
	}
}

func TestVoteInvalidAction(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "author-1")

	_, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("sideways"))
	if !errors.Is(err, domainerrors.ErrInvalidVoteAction) {
		t.Fatalf("expected invalid action error, got %v", err)
	}
}

func TestVoteScenarioQuestionUpRemoveLifecycle(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-q", "user-1")
	module.Store.SetReputation("user-1", 0)

	resp, err := module.Handler.VoteQuestionHandler(context.Background(), "user-2", "question-q", voteReq("up"))
	if err != nil {
		t.Fatalf("upvote failed: %v", err)
	}
	if resp.Votes != 1 {
		t.Fatalf("expected score 1, got %d", resp.Votes)
	}
	if got := module.Store.ReputationOf("user-1"); got != 5 {
		t.Fatalf("expected +5 reputation, got %d", got)
	}
	notifications := module.Store.Notifications()
	if len(notifications) != 1 {
		t.Fatalf("expected one notification, got %d", len(notifications))
	}
	if notifications[0].RecipientID != "user-1" || notifications[0].Type != "vote_on_question" || notifications[0].VoteAction != "up" {
		t.Fatalf("unexpected notification: %+v", notifications[0])
	}

	resp, err = module.Handler.VoteQuestionHandler(context.Background(), "user-2", "question-q", voteReq("up"))
	if err != nil {
		t.Fatalf("repeat upvote failed: %v", err)
	}
	if resp.Votes != 1 || module.Store.ReputationOf("user-1") != 5 || len(module.Store.Notifications()) != 1 {
		t.Fatalf("repeat upvote must be a full no-op")
	}

	resp, err = module.Handler.VoteQuestionHandler(context.Background(), "user-2", "question-q", voteReq("remove"))
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if resp.Votes != 0 || module.Store.ReputationOf("user-1") != 0 || len(module.Store.Notifications()) != 1 {
		t.Fatalf("remove must reverse delta and never notify: votes=%d rep=%d notifications=%d",
			resp.Votes, module.Store.ReputationOf("user-1"), len(module.Store.Notifications()))
	}
}

func TestVoteSucceedsWhenSecondaryWritesFail(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "author-1")
	module.Store.FailSecondaryWrites(true, true)

	resp, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("up"))
	if err != nil {
		t.Fatalf("vote must succeed when reputation and notification writes fail: %v", err)
	}
	if resp.Votes != 1 {
		t.Fatalf("expected committed ledger score 1, got %d", resp.Votes)
	}
	if got := len(module.Store.Notifications()); got != 0 {
		t.Fatalf("expected notification write to have failed, got %d", got)
	}
}

func TestVoteAppendsOutboxEvents(t *testing.T) {
	module := votingengine.NewInMemoryModule(nil)
	module.Store.SeedQuestion("question-1", "author-1")

	if _, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("up")); err != nil {
		t.Fatalf("upvote failed: %v", err)
	}
	if _, err := module.Handler.VoteQuestionHandler(context.Background(), "voter-1", "question-1", voteReq("remove")); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	messages := module.Store.OutboxMessages()
	if len(messages) != 2 {
		t.Fatalf("expected two outbox rows, got %d", len(messages))
	}
	if messages[0].EventType != "vote.applied" || messages[1].EventType != "vote.removed" {
		t.Fatalf("unexpected outbox event types: %s, %s", messages[0].EventType, messages[1].EventType)
	}
}
