package moderation

import (
	"chat-guard/contract"
	"chat-guard/domain"
	"chat-guard/domain/event"
	apperrors "chat-guard/errors"
	"chat-guard/observability"
	"chat-guard/repositories"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Pipeline decides, for every incoming or edited message, whether to
// persist it, delete it, or delete and escalate to a notification.
// It is stateless between events: everything it knows lives in the
// injected registry, store and tracker. No failure of a collaborator
// interrupts the current event or the service; errors are logged with
// chat/user context and processing moves on.
type Pipeline struct {
	log       *slog.Logger
	access    repositories.IAccessRepository
	store     repositories.IMessageRepository
	index     repositories.ISearchIndex
	tracker   *Tracker
	transport contract.Transport
	stats     *observability.Stats
	owner     domain.UserID
	now       func() time.Time
}

// NewPipeline wires the moderation core. index may be nil when search
// indexing is disabled.
func NewPipeline(
	log *slog.Logger,
	access repositories.IAccessRepository,
	store repositories.IMessageRepository,
	index repositories.ISearchIndex,
	tracker *Tracker,
	transport contract.Transport,
	stats *observability.Stats,
	owner domain.UserID,
) *Pipeline {
	return &Pipeline{
		log:       log,
		access:    access,
		store:     store,
		index:     index,
		tracker:   tracker,
		transport: transport,
		stats:     stats,
		owner:     owner,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes one message event end to end.
func (p *Pipeline) Handle(ctx context.Context, evt event.Message) {
	approved, err := p.access.IsChatApproved(evt.Chat)
	if err != nil {
		p.stats.IncrStoreErrors()
		p.log.Error("Approved chat lookup failed", "chat", evt.Chat, "user", evt.User, "error", err)
		return
	}
	if !approved {
		return
	}

	text := evt.Content()
	if text == "" {
		return
	}
	p.stats.IncrObserved()

	if p.isViolation(evt.User, text) {
		p.punish(ctx, evt)
		return
	}
	p.persist(evt, text)
}

// isViolation applies the length policy with the owner and approved-user
// exemptions. If the exemption lookup fails the message is left alone:
// deleting on a store error would punish users for our outage.
func (p *Pipeline) isViolation(user domain.UserID, text string) bool {
	if !OverLimit(text) {
		return false
	}
	if user == p.owner {
		return false
	}
	exempt, err := p.access.IsUserApproved(user)
	if err != nil {
		p.stats.IncrStoreErrors()
		p.log.Error("Approved user lookup failed", "user", user, "error", err)
		return false
	}
	return !exempt
}

// punish deletes the offending message, records the violation and, once
// the window reaches capacity, notifies the user. The notification keeps
// firing for every violation past the third: a saturated window stays at
// capacity, and that length is the signal.
func (p *Pipeline) punish(ctx context.Context, evt event.Message) {
	if err := p.transport.DeleteMessage(ctx, evt.Chat, evt.Message); err != nil {
		p.stats.IncrTransportErrors()
		p.log.Error("Message deletion failed",
			"chat", evt.Chat, "user", evt.User, "message", evt.Message, "error", err)
	} else {
		p.stats.IncrDeleted()
		p.log.Info("Message deleted over word limit",
			"chat", evt.Chat, "user", evt.User, "message", evt.Message, "edited", evt.Edited)
	}

	if count := p.tracker.Record(evt.Chat, evt.User, p.now()); count == WindowCapacity {
		p.notify(ctx, evt.Chat, evt.User)
	}
}

// notify mentions the user in the chat and explains the removal.
// Failures are logged only, never raised back into the moderation flow.
func (p *Pipeline) notify(ctx context.Context, chat domain.ChatID, user domain.UserID) {
	display, err := p.transport.ResolveUser(ctx, user)
	if err != nil {
		p.stats.IncrTransportErrors()
		p.log.Error("User display resolution failed", "chat", chat, "user", user, "error", err)
		return
	}
	text := fmt.Sprintf(
		"Hey %s, I have removed your messages because of security guidelines. "+
			"You can ask my admins to approve you so that I won't delete your messages.",
		display.Mention)
	if err = p.transport.SendMessage(ctx, chat, text); err != nil {
		p.stats.IncrTransportErrors()
		p.log.Error("Notification send failed", "chat", chat, "user", user, "error", err)
		return
	}
	p.stats.IncrNotified()
	p.log.Info("Violation notification sent", "chat", chat, "user", user)
}

// persist stores the snapshot: insert for new messages, in-place update
// for edits. Store failures never surface to the chat.
func (p *Pipeline) persist(evt event.Message, text string) {
	if evt.Edited {
		record, err := p.store.Update(evt.Chat, evt.Message, text, evt.EditedAt)
		if err != nil {
			p.stats.IncrStoreErrors()
			if errors.Is(err, apperrors.ErrMessageNotFound) {
				p.log.Warn("Edit for unknown message ignored",
					"chat", evt.Chat, "user", evt.User, "message", evt.Message)
			} else {
				p.log.Error("Snapshot update failed",
					"chat", evt.Chat, "user", evt.User, "message", evt.Message, "error", err)
			}
			return
		}
		p.stats.IncrUpdated()
		p.indexRecord(record)
		return
	}

	record := domain.MessageRecord{
		Message:   evt.Message,
		Chat:      evt.Chat,
		User:      evt.User,
		Text:      text,
		CreatedAt: evt.At,
	}
	if err := p.store.Save(record); err != nil {
		p.stats.IncrStoreErrors()
		p.log.Error("Snapshot save failed",
			"chat", evt.Chat, "user", evt.User, "message", evt.Message, "error", err)
		return
	}
	p.stats.IncrStored()
	p.indexRecord(record)
}

func (p *Pipeline) indexRecord(record domain.MessageRecord) {
	if p.index == nil {
		return
	}
	if err := p.index.Index(record); err != nil {
		p.log.Error("Search indexing failed",
			"chat", record.Chat, "message", record.Message, "error", err)
	}
}
