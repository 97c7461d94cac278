package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"gameshelf/internal/catalog"
	"gameshelf/internal/library"
	"gameshelf/internal/logging"
	"gameshelf/internal/services"
	"gameshelf/internal/textutil"
)

// Resolver matches local games against the external catalog. It never
// guesses: a game links only when exactly one candidate survives normalized
// title+platform comparison.
type Resolver struct {
	store    *library.Store
	searcher catalog.Searcher
	logger   *slog.Logger
}

// New creates a resolver.
func New(store *library.Store, searcher catalog.Searcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		store:    store,
		searcher: searcher,
		logger:   logging.NewComponentLogger(logger, "resolver"),
	}
}

// Resolution describes one successful link.
type Resolution struct {
	Game  library.Game
	Entry library.CatalogEntry
}

// MatchError reports a failed resolution along with the surviving
// candidates, ranked by similarity for display. It unwraps to
// services.ErrAmbiguousMatch.
type MatchError struct {
	Reason     string
	Candidates []catalog.Candidate
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("resolve: %s (%d candidates)", e.Reason, len(e.Candidates))
}

func (e *MatchError) Unwrap() error {
	return services.ErrAmbiguousMatch
}

// Resolve attempts to link one game. Nothing is written on any failure
// path; an already linked game is a no-op reported via
// services.ErrAlreadyResolved.
func (r *Resolver) Resolve(ctx context.Context, game *library.Game) (Resolution, error) {
	if game == nil {
		return Resolution{}, services.Wrap(services.ErrValidation, "resolver", "resolve", "game is nil", nil)
	}
	logger := r.logger.With(
		logging.Int64(logging.FieldGameID, game.ID),
		logging.String("title", game.Title),
		logging.String("platform", game.Platform))

	_, existing, err := r.store.LinkForGame(ctx, game.ID)
	if err != nil {
		return Resolution{}, services.Wrap(services.ErrUnavailable, "resolver", "resolve", "check existing link", err)
	}
	if existing != nil {
		logger.Debug("game already linked",
			logging.String(logging.FieldCatalogID, existing.CatalogID))
		return Resolution{}, services.Wrap(services.ErrAlreadyResolved, "resolver", "resolve", fmt.Sprintf("game %d already linked to %s", game.ID, existing.CatalogID), nil)
	}

	candidates, err := r.searcher.Search(ctx, game.Title, game.Platform)
	if err != nil {
		return Resolution{}, services.Wrap(services.ErrTransport, "resolver", "search", "catalog search failed", err)
	}

	key := textutil.QueryKey(game.Title, game.Platform)
	var matches []catalog.Candidate
	for _, candidate := range candidates {
		if textutil.QueryKey(candidate.Title, candidate.Platform) == key {
			matches = append(matches, candidate)
		}
	}

	switch len(matches) {
	case 1:
		entry, err := r.store.LinkGame(ctx, game.ID, library.CatalogEntry{
			CatalogID: matches[0].CatalogID,
			Title:     matches[0].Title,
			Platform:  matches[0].Platform,
			URL:       matches[0].URL,
		})
		if err != nil {
			return Resolution{}, services.Wrap(services.ErrUnavailable, "resolver", "link", "record link", err)
		}
		logger.Info("resolved game",
			logging.String(logging.FieldCatalogID, entry.CatalogID))
		return Resolution{Game: *game, Entry: *entry}, nil
	case 0:
		logger.Debug("no exact catalog match",
			logging.Int("candidates", len(candidates)))
		return Resolution{}, &MatchError{
			Reason:     "no exact match",
			Candidates: RankCandidates(game.Title, game.Platform, candidates),
		}
	default:
		logger.Debug("multiple exact catalog matches",
			logging.Int("matches", len(matches)))
		return Resolution{}, &MatchError{
			Reason:     "multiple exact matches",
			Candidates: RankCandidates(game.Title, game.Platform, matches),
		}
	}
}

// RankCandidates orders candidates by similarity to the local title and
// platform, most similar first. Ranking is presentation only; it never
// influences whether a link happens.
func RankCandidates(title, platform string, candidates []catalog.Candidate) []catalog.Candidate {
	if len(candidates) < 2 {
		return candidates
	}
	target := textutil.NewFingerprint(title + " " + platform)
	type scored struct {
		candidate catalog.Candidate
		score     float64
	}
	ranked := make([]scored, len(candidates))
	for i, candidate := range candidates {
		ranked[i] = scored{
			candidate: candidate,
			score:     textutil.CosineSimilarity(target, textutil.NewFingerprint(candidate.Title+" "+candidate.Platform)),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	out := make([]catalog.Candidate, len(ranked))
	for i, entry := range ranked {
		out[i] = entry.candidate
	}
	return out
}
