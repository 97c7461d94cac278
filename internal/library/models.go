package library

import (
	"strings"
	"time"
)

// Condition is the physical grade a price observation or purchase refers to.
type Condition string

const (
	ConditionLoose    Condition = "loose"
	ConditionComplete Condition = "complete"
	ConditionNew      Condition = "new"
)

var allConditions = []Condition{
	ConditionLoose,
	ConditionComplete,
	ConditionNew,
}

var conditionAliases = map[string]Condition{
	"loose":    ConditionLoose,
	"cart":     ConditionLoose,
	"disc":     ConditionLoose,
	"complete": ConditionComplete,
	"cib":      ConditionComplete,
	"boxed":    ConditionComplete,
	"new":      ConditionNew,
	"sealed":   ConditionNew,
}

// Conditions returns the ordered list of known conditions.
func Conditions() []Condition {
	cp := make([]Condition, len(allConditions))
	copy(cp, allConditions)
	return cp
}

// ParseCondition converts user input into a known Condition. Common retail
// shorthand (cib, sealed) maps onto the canonical values.
func ParseCondition(value string) (Condition, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", false
	}
	condition, ok := conditionAliases[normalized]
	return condition, ok
}

// Valid reports whether the condition is one of the canonical values.
func (c Condition) Valid() bool {
	for _, known := range allConditions {
		if c == known {
			return true
		}
	}
	return false
}

// Source distinguishes owned items from wishlist items.
type Source string

const (
	SourceOwned  Source = "owned"
	SourceWanted Source = "wanted"
)

// Game represents a physical game persisted in SQLite. Purchase fields are
// populated for owned items only; Condition carries the owned grade or the
// wanted grade depending on Source.
type Game struct {
	ID              int64
	Title           string
	Platform        string
	Source          Source
	Condition       Condition
	PricePaid       *float64
	AcquisitionDate *time.Time
	CreatedAt       time.Time
}

// Owned reports whether the game is part of the collection rather than the
// wishlist.
func (g Game) Owned() bool {
	return g.Source == SourceOwned
}

// CatalogEntry is the local copy of an external catalog record. CatalogID is
// empty until resolution completes and is immutable once set.
type CatalogEntry struct {
	ID        int64
	CatalogID string
	Title     string
	Platform  string
	URL       string
	CreatedAt time.Time
}

// Resolved reports whether the external identifier has been recorded.
func (e CatalogEntry) Resolved() bool {
	return e.CatalogID != ""
}

// Link ties a physical game to a catalog entry. At most one active link per
// game.
type Link struct {
	ID           int64
	GameID       int64
	CatalogEntry int64
	CreatedAt    time.Time
}

// Observation is one appended price reading. A nil Price records an attempted
// fetch that returned no data; the absence of any row means never fetched.
type Observation struct {
	ID         int64
	CatalogID  string
	Condition  Condition
	Price      *float64
	ObservedAt time.Time
}

// EntryState is the reconciliation state of one physical game.
type EntryState string

const (
	StateUnlinked     EntryState = "unlinked"
	StateLinkedNoData EntryState = "linked_no_data"
	StateLinkedStale  EntryState = "linked_stale"
	StateLinkedFresh  EntryState = "linked_fresh"
)

var allStates = []EntryState{
	StateUnlinked,
	StateLinkedNoData,
	StateLinkedStale,
	StateLinkedFresh,
}

// States returns the ordered list of entry states.
func States() []EntryState {
	cp := make([]EntryState, len(allStates))
	copy(cp, allStates)
	return cp
}

// GameState pairs a game with its reconciliation state. LastObserved is the
// newest observation timestamp across conditions, nil when none exist.
type GameState struct {
	Game         Game
	CatalogID    string
	State        EntryState
	LastObserved *time.Time
}

// PriceSet holds the current price per condition for one catalog entry. A nil
// pointer means no usable current price (never observed, or latest
// observation was empty).
type PriceSet struct {
	Loose    *float64
	Complete *float64
	New      *float64
}

// ForCondition returns the price slot for the given condition.
func (p PriceSet) ForCondition(condition Condition) *float64 {
	switch condition {
	case ConditionLoose:
		return p.Loose
	case ConditionComplete:
		return p.Complete
	case ConditionNew:
		return p.New
	default:
		return nil
	}
}

// CollectionRow is one reporting row: a game joined against its catalog link
// and the latest price per condition.
type CollectionRow struct {
	Game
	CatalogID string
	Prices    PriceSet
}

// PlatformCount is one bucket of the per-platform distribution.
type PlatformCount struct {
	Platform string
	Count    int
}

// ValueTotals sums the latest prices across all linked owned games, one total
// per condition bucket. Priced counts owned games with at least one current
// price.
type ValueTotals struct {
	Loose    float64
	Complete float64
	New      float64
	Priced   int
}

// Stats aggregates collection-wide reporting numbers.
type Stats struct {
	Owned        int
	Wanted       int
	Linked       int
	Unresolved   int
	Observations int
	Value        ValueTotals
	Platforms    []PlatformCount
	Recent       []Game
}

// DatabaseHealth captures diagnostic information about the collection
// database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	SchemaVersion    string
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	TotalGames       int
	Error            string
}
