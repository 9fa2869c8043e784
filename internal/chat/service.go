// Package chat orchestrates one conversational turn: user utterance in,
// remote completion, intent decoding, order recording, assistant reply
// out. A turn always returns the session to an idle state; no failure in
// this pipeline is fatal to the session.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"shopchat/internal/completion"
	"shopchat/internal/domain"
	"shopchat/internal/intent"
	"shopchat/internal/session"
	"shopchat/internal/tokens"
)

// ErrEmptyUtterance rejects blank input before any remote call is made.
var ErrEmptyUtterance = errors.New("utterance must not be empty")

// Completer issues one completion exchange with the remote service.
type Completer interface {
	Complete(ctx context.Context, req *domain.CompletionRequest) (completion.Envelope, error)
}

// CatalogSource resolves a store's catalog URL to the flattened text table
// included in the prompt.
type CatalogSource interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// OrderNotifier forwards a confirmed order downstream, best-effort.
type OrderNotifier interface {
	Notify(ctx context.Context, order *domain.OrderRecord)
}

// NotifierFor returns the notifier for a session's configured webhook.
type NotifierFor func(endpoint string) OrderNotifier

// Service drives the turn state machine.
type Service struct {
	completer   Completer
	catalog     CatalogSource
	notifierFor NotifierFor
	estimator   *tokens.Estimator
	logger      *slog.Logger
	now         func() time.Time
}

// New creates the turn orchestrator.
func New(completer Completer, catalog CatalogSource, notifierFor NotifierFor, logger *slog.Logger) *Service {
	return &Service{
		completer:   completer,
		catalog:     catalog,
		notifierFor: notifierFor,
		estimator:   tokens.NewEstimator(),
		logger:      logger,
		now:         time.Now,
	}
}

// HandleTurn resolves one user utterance to an assistant reply. The
// returned string is always the text appended as the assistant's turn; the
// error, when non-nil, classifies a transport or remote-service failure so
// the caller can map it to a status code. Parse failures are recovered
// here by replying with the raw extracted text and are not errors to the
// caller.
func (s *Service) HandleTurn(ctx context.Context, sess *session.Session, utterance string) (string, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return "", ErrEmptyUtterance
	}

	sess.LockTurn()
	defer sess.UnlockTurn()

	sess.Transcript.Append(domain.RoleUser, utterance)

	catalogText, err := s.catalog.Fetch(ctx, sess.Store.CatalogURL)
	if err != nil {
		// The prompt degrades to policy-only; the turn proceeds.
		s.logger.Warn("catalog fetch failed",
			slog.String("store", sess.Store.Username),
			slog.String("error", err.Error()))
		catalogText = ""
	}

	req := &domain.CompletionRequest{
		StorePolicy:    sess.Store.Policy,
		ProductCatalog: catalogText,
		UserQuestion:   utterance,
	}

	env, err := s.completer.Complete(ctx, req)
	if err != nil {
		msg := failureMessage(err)
		sess.Transcript.Append(domain.RoleAssistant, msg)
		return msg, err
	}

	raw := env.Text()

	in, err := intent.Parse(raw)
	if err != nil {
		// Graceful degradation: never block the user on a parse error.
		s.logger.Warn("intent parse failed, replying with raw text",
			slog.String("store", sess.Store.Username),
			slog.String("error", err.Error()))
		sess.Transcript.Append(domain.RoleAssistant, raw)
		return raw, nil
	}

	if in.Action == domain.ActionCreateOrder {
		order, err := sess.Ledger.Record(ctx, in, s.now())
		if err != nil {
			// Aborts the ledger step only; the reply still goes out.
			s.logger.Error("order record failed",
				slog.String("store", sess.Store.Username),
				slog.String("item", in.Item),
				slog.String("error", err.Error()))
		} else {
			s.notifierFor(sess.Store.WebhookURL).Notify(ctx, order)
			s.logger.Info("order recorded",
				slog.String("store", sess.Store.Username),
				slog.String("order_id", order.ID),
				slog.String("item", order.Item),
				slog.Int("quantity", order.Quantity))
		}
	}

	sess.Transcript.Append(domain.RoleAssistant, in.Message)

	s.logger.Info("turn completed",
		slog.String("store", sess.Store.Username),
		slog.String("action", string(in.Action)),
		slog.Int("prompt_tokens", s.estimator.Count(req.StorePolicy)+s.estimator.Count(req.ProductCatalog)+s.estimator.Count(req.UserQuestion)),
		slog.Int("reply_tokens", s.estimator.Count(raw)))

	return in.Message, nil
}

func failureMessage(err error) string {
	var remoteErr *domain.RemoteServiceError
	if errors.As(err, &remoteErr) {
		return fmt.Sprintf("The assistant service returned an error (status %d). Please try again.", remoteErr.StatusCode)
	}
	return "Unable to reach the assistant service. Please try again."
}
