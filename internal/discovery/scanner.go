// Package discovery watches the Token program for new mint accounts and
// emits resolved tokens on a channel for the decision engine.
package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"solana-sniper/internal/chaindata"
	"solana-sniper/internal/domain"
	"solana-sniper/internal/solana"
)

const (
	// DefaultDedupSize bounds the seen-mint LRU. Old entries are
	// evicted rather than kept forever; a re-emitted very old mint is
	// harmless because the age gate rejects it downstream.
	DefaultDedupSize = 100_000

	// resubscribeDelay is the fixed backoff before retrying a failed
	// subscription.
	resubscribeDelay = 5 * time.Second

	// tokenChannelBuffer absorbs bursts of new mints while the engine
	// is busy evaluating.
	tokenChannelBuffer = 256
)

// ProgramSubscriber is the slice of the WebSocket client the scanner
// needs. Satisfied by solana.WSClient.
type ProgramSubscriber interface {
	SubscribeProgram(ctx context.Context, filter solana.ProgramFilter) (<-chan solana.ProgramNotification, error)
}

// Scanner subscribes to Token program account updates filtered to mint
// accounts, deduplicates, resolves each new mint into a Token and emits
// it. Duplicate notifications for the same mint are dropped.
type Scanner struct {
	ws       ProgramSubscriber
	provider chaindata.Provider
	seen     *lru.Cache[string, struct{}]
	log      zerolog.Logger

	out  chan domain.Token
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once

	onResolveFailure func()
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithResolveFailureHook registers a hook called whenever a discovered
// mint cannot be resolved. Used to feed metrics.
func WithResolveFailureHook(hook func()) Option {
	return func(s *Scanner) {
		s.onResolveFailure = hook
	}
}

// NewScanner creates a scanner. dedupSize <= 0 uses DefaultDedupSize.
func NewScanner(ws ProgramSubscriber, provider chaindata.Provider, dedupSize int, log zerolog.Logger, opts ...Option) (*Scanner, error) {
	if dedupSize <= 0 {
		dedupSize = DefaultDedupSize
	}
	seen, err := lru.New[string, struct{}](dedupSize)
	if err != nil {
		return nil, err
	}

	s := &Scanner{
		ws:       ws,
		provider: provider,
		seen:     seen,
		log:      log.With().Str("component", "discovery").Logger(),
		out:      make(chan domain.Token, tokenChannelBuffer),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tokens returns the channel of discovered tokens. Closed when the
// scanner stops.
func (s *Scanner) Tokens() <-chan domain.Token {
	return s.out
}

// Start begins scanning. It subscribes to mint account updates
// (dataSize filter for the 82-byte mint layout) and runs until the
// context is canceled or Stop is called.
func (s *Scanner) Start(ctx context.Context) error {
	notifications, err := s.subscribe(ctx)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go s.run(ctx, notifications)
	return nil
}

func (s *Scanner) subscribe(ctx context.Context) (<-chan solana.ProgramNotification, error) {
	mintSize := uint64(chaindata.MintAccountSize)
	return s.ws.SubscribeProgram(ctx, solana.ProgramFilter{
		Program: solana.TokenProgramID,
		Filters: []solana.AccountFilter{{DataSize: &mintSize}},
	})
}

// Stop shuts the scanner down and closes the token channel.
func (s *Scanner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		s.wg.Wait()
		close(s.out)
	})
}

func (s *Scanner) run(ctx context.Context, notifications <-chan solana.ProgramNotification) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case notif, ok := <-notifications:
			if !ok {
				// Subscription gone. Retry after a fixed delay until
				// it comes back or we are stopped.
				notifications = s.resubscribe(ctx)
				if notifications == nil {
					return
				}
				continue
			}
			s.handle(ctx, notif)
		}
	}
}

// resubscribe retries the subscription with a fixed delay between
// attempts. Returns nil only when stopped.
func (s *Scanner) resubscribe(ctx context.Context) <-chan solana.ProgramNotification {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		case <-time.After(resubscribeDelay):
		}

		notifications, err := s.subscribe(ctx)
		if err == nil {
			s.log.Info().Msg("resubscribed to mint updates")
			return notifications
		}
		if errors.Is(err, solana.ErrConnectionLost) {
			s.log.Warn().Msg("connection still down, retrying")
			continue
		}
		s.log.Warn().Err(err).Msg("resubscribe failed, retrying")
	}
}

func (s *Scanner) handle(ctx context.Context, notif solana.ProgramNotification) {
	mint := notif.Pubkey

	// Mint accounts get updated on every supply change; only the first
	// sighting counts as a discovery.
	if dup, _ := s.seen.ContainsOrAdd(mint, struct{}{}); dup {
		return
	}

	token, err := s.provider.ResolveToken(ctx, mint)
	if err != nil {
		if s.onResolveFailure != nil {
			s.onResolveFailure()
		}
		if errors.Is(err, domain.ErrDataUnavailable) {
			// Could not resolve now. Forget the mint so a later
			// notification retries it.
			s.seen.Remove(mint)
			s.log.Debug().Str("mint", mint).Msg("resolve deferred, data unavailable")
			return
		}
		s.log.Warn().Err(err).Str("mint", mint).Msg("resolve failed")
		return
	}

	s.log.Info().
		Str("mint", mint).
		Str("symbol", token.Symbol).
		Int64("slot", notif.Slot).
		Msg("token discovered")

	select {
	case s.out <- *token:
	case <-ctx.Done():
	case <-s.stop:
	}
}
