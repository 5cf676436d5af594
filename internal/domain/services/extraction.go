package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/voyagegraph/voyage-core/internal/domain/entities"
	"github.com/voyagegraph/voyage-core/internal/domain/ports"
)

const (
	// DefaultMinConfidence is the threshold below which mentions are dropped.
	DefaultMinConfidence = 0.3
	// DefaultContextRunes is the size of the context window kept per mention.
	DefaultContextRunes = 160
	// DefaultWorkers bounds batch extraction concurrency.
	DefaultWorkers = 4
	// maxHeuristicWords caps the length of proper-noun phrase candidates.
	maxHeuristicWords = 4
)

// ExtractorParams tunes extraction. Zero values take the defaults above.
type ExtractorParams struct {
	MinConfidence float64
	ContextRunes  int
	Workers       int
}

// ExtractionStats is a read-only view of extractor activity.
type ExtractionStats struct {
	DocumentsProcessed int64 `json:"documents_processed"`
	MentionsExtracted  int64 `json:"mentions_extracted"`
	Extractions        int64 `json:"extractions"`
	CacheHits          int64 `json:"cache_hits"`
	CacheMisses        int64 `json:"cache_misses"`
}

// Extractor mines documents into ordered entity mention lists. Extraction is
// deterministic for identical input, never fails on malformed content, and is
// stateless per document, so batches fan out concurrently sharing only the
// extraction cache.
type Extractor struct {
	resolver      *Resolver
	gaz           *Gazetteer
	cache         ports.ExtractionCache
	minConfidence float64
	contextRunes  int
	workers       int

	extractions atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	documents   atomic.Int64
	mentions    atomic.Int64
}

// NewExtractor creates an extractor. Invalid static configuration fails here,
// at construction time, never at call time.
func NewExtractor(resolver *Resolver, gaz *Gazetteer, cache ports.ExtractionCache, params ExtractorParams) (*Extractor, error) {
	if params.MinConfidence == 0 {
		params.MinConfidence = DefaultMinConfidence
	}
	if params.MinConfidence < 0 || params.MinConfidence > 1 {
		return nil, fmt.Errorf("min confidence must be in [0,1], got %v", params.MinConfidence)
	}
	if params.ContextRunes == 0 {
		params.ContextRunes = DefaultContextRunes
	}
	if params.ContextRunes < 0 {
		return nil, fmt.Errorf("context window must be positive, got %d", params.ContextRunes)
	}
	if params.Workers == 0 {
		params.Workers = DefaultWorkers
	}
	if params.Workers < 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", params.Workers)
	}
	return &Extractor{
		resolver:      resolver,
		gaz:           gaz,
		cache:         cache,
		minConfidence: params.MinConfidence,
		contextRunes:  params.ContextRunes,
		workers:       params.Workers,
	}, nil
}

// Fingerprint returns a stable hash of a document's identifier and content,
// used to decide whether a cached extraction result is still valid.
func Fingerprint(doc entities.Document) string {
	h := fnv.New64a()
	for _, part := range []string{doc.ID, doc.Title, doc.Excerpt, doc.Content, strings.Join(doc.Tags, "\x1f")} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

// ExtractEntities returns the ordered mention list for one document,
// consulting the extraction cache first. Malformed or empty content degrades
// to an empty list.
func (e *Extractor) ExtractEntities(doc entities.Document) []entities.EntityMention {
	fp := Fingerprint(doc)
	if cached, ok := e.cache.Get(fp); ok {
		e.cacheHits.Add(1)
		return cached
	}
	e.cacheMisses.Add(1)

	mentions := e.extract(doc)
	e.cache.Put(fp, mentions)
	e.documents.Add(1)
	e.mentions.Add(int64(len(mentions)))
	return mentions
}

// BatchExtract extracts every document concurrently and returns the mention
// lists keyed by document ID. A failing document never aborts the batch; it
// lands in the failure list instead. The only returned error is context
// cancellation.
func (e *Extractor) BatchExtract(ctx context.Context, docs []entities.Document) (map[string][]entities.EntityMention, []entities.DocumentFailure, error) {
	results := make(map[string][]entities.EntityMention, len(docs))
	var failures []entities.DocumentFailure
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			failures = append(failures, entities.DocumentFailure{Reason: "missing document id"})
			continue
		}
		if _, dup := seen[doc.ID]; dup {
			failures = append(failures, entities.DocumentFailure{DocumentID: doc.ID, Reason: "duplicate document id"})
			continue
		}
		seen[doc.ID] = struct{}{}

		doc := doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mentions := e.ExtractEntities(doc)
			mu.Lock()
			results[doc.ID] = mentions
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].DocumentID < failures[j].DocumentID
	})
	return results, failures, nil
}

// Stats returns extractor counters. The extraction count only moves on real
// recomputation, so cache hits are observable.
func (e *Extractor) Stats() ExtractionStats {
	return ExtractionStats{
		DocumentsProcessed: e.documents.Load(),
		MentionsExtracted:  e.mentions.Load(),
		Extractions:        e.extractions.Load(),
		CacheHits:          e.cacheHits.Load(),
		CacheMisses:        e.cacheMisses.Load(),
	}
}

// Extractions returns how many times the underlying extraction routine ran.
func (e *Extractor) Extractions() int64 {
	return e.extractions.Load()
}

// ClearCache wipes the extraction cache.
func (e *Extractor) ClearCache() {
	e.cache.Clear()
}

// section pairs a text segment with its positional weight. Title and excerpt
// mentions outweigh body mentions.
type section struct {
	text   string
	weight float64
}

// candidate is one detected span before per-document aggregation.
type candidate struct {
	surface    string
	typ        entities.MentionType
	category   string
	confidence float64
	context    string
	sentiment  entities.Sentiment
	weight     float64
}

// aggregate accumulates repeated raw matches of one resolved key within a
// document.
type aggregate struct {
	surface    string
	typ        entities.MentionType
	category   string
	confidence float64
	contexts   []string
	sentiment  entities.Sentiment
	weight     float64
	count      int
}

func (e *Extractor) extract(doc entities.Document) []entities.EntityMention {
	e.extractions.Add(1)

	if doc.IsEmpty() {
		return []entities.EntityMention{}
	}

	sections := []section{
		{text: doc.Title, weight: 1.0},
		{text: doc.Excerpt, weight: 0.85},
		{text: doc.Content, weight: 0.7},
	}

	var cands []candidate
	for _, sec := range sections {
		if strings.TrimSpace(sec.text) == "" {
			continue
		}
		cands = append(cands, e.scanSection(sec)...)
	}
	for _, tag := range doc.Tags {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		cands = append(cands, candidate{
			surface:    tag,
			typ:        e.gaz.TagType(tag),
			category:   "tag",
			confidence: 1.0,
			sentiment:  entities.SentimentNeutral,
			weight:     1.0,
		})
	}

	return e.collapse(cands)
}

// scanSection runs the gazetteer and heuristic layers over one text segment.
func (e *Extractor) scanSection(sec section) []candidate {
	tokens := tokenize(sec.text)
	if len(tokens) == 0 {
		return nil
	}
	covered := make([]bool, len(tokens))
	var cands []candidate

	// Gazetteer lookups first, longest phrase wins.
	maxWords := e.gaz.MaxWords()
	for i := 0; i < len(tokens); {
		matched := false
		limit := maxWords
		if rest := len(tokens) - i; rest < limit {
			limit = rest
		}
		for n := limit; n >= 1; n-- {
			surface := sec.text[tokens[i].start:tokens[i+n-1].end]
			key := e.resolver.Normalize(surface)
			entry, ok := e.gaz.Lookup(key)
			if !ok {
				continue
			}
			window := e.window(sec.text, tokens[i].start, tokens[i+n-1].end)
			cands = append(cands, candidate{
				surface:    surface,
				typ:        entry.Type,
				category:   entry.Category,
				confidence: entry.Confidence,
				context:    window,
				sentiment:  e.gaz.ScanSentiment(window),
				weight:     sec.weight,
			})
			for j := i; j < i+n; j++ {
				covered[j] = true
			}
			i += n
			matched = true
			break
		}
		if !matched {
			i++
		}
	}

	// Then probable proper-noun phrases the gazetteer missed.
	for i := 0; i < len(tokens); {
		if covered[i] || !tokens[i].upper || isStopword(tokens[i].norm) {
			i++
			continue
		}
		j := i
		for j < len(tokens) && j-i < maxHeuristicWords &&
			tokens[j].upper && !covered[j] && !isStopword(tokens[j].norm) {
			j++
		}
		runLen := j - i
		// A lone capitalized word at a sentence start is too ambiguous
		// to treat as a name.
		if runLen == 1 && tokens[i].sentenceStart {
			i = j
			continue
		}

		surface := sec.text[tokens[i].start:tokens[j-1].end]
		window := e.window(sec.text, tokens[i].start, tokens[j-1].end)
		confidence := 0.5
		if runLen >= 2 {
			confidence += 0.1
		}
		typ := entities.TypeThing
		if cue, ok := e.cueNear(tokens, i, j); ok {
			typ = cue
			confidence += 0.1
		}
		cands = append(cands, candidate{
			surface:    surface,
			typ:        typ,
			confidence: confidence,
			context:    window,
			sentiment:  e.gaz.ScanSentiment(window),
			weight:     sec.weight,
		})
		i = j
	}

	return cands
}

// cueNear looks a few tokens around a heuristic run for a type cue word.
func (e *Extractor) cueNear(tokens []token, start, end int) (entities.MentionType, bool) {
	lo := start - 3
	if lo < 0 {
		lo = 0
	}
	hi := end + 3
	if hi > len(tokens) {
		hi = len(tokens)
	}
	for i := lo; i < hi; i++ {
		if i >= start && i < end {
			continue
		}
		if t, ok := e.gaz.CueType(tokens[i].norm); ok {
			return t, true
		}
	}
	return entities.TypeThing, false
}

// collapse merges raw candidates per resolved key: max confidence,
// concatenated context, counted occurrences. It then scores relevance,
// filters by the confidence threshold, and orders the output.
func (e *Extractor) collapse(cands []candidate) []entities.EntityMention {
	aggs := make(map[entities.ResolvedKey]*aggregate)
	var order []entities.ResolvedKey

	for _, c := range cands {
		key := e.resolver.Resolve(c.typ, c.surface)
		if key.NormalizedName == "" {
			continue
		}
		agg, ok := aggs[key]
		if !ok {
			agg = &aggregate{surface: c.surface, typ: c.typ, sentiment: entities.SentimentNeutral}
			aggs[key] = agg
			order = append(order, key)
		}
		agg.count++
		if c.confidence > agg.confidence {
			agg.confidence = c.confidence
		}
		if c.weight > agg.weight {
			agg.weight = c.weight
		}
		if agg.category == "" {
			agg.category = c.category
		}
		if agg.sentiment == entities.SentimentNeutral && c.sentiment != entities.SentimentNeutral {
			agg.sentiment = c.sentiment
		}
		if c.context != "" && len(agg.contexts) < 3 {
			agg.contexts = append(agg.contexts, c.context)
		}
	}

	mentions := make([]entities.EntityMention, 0, len(order))
	for _, key := range order {
		agg := aggs[key]
		if agg.confidence < e.minConfidence {
			continue
		}
		mentions = append(mentions, entities.EntityMention{
			Type:           key.Type,
			Name:           agg.surface,
			NormalizedName: key.NormalizedName,
			Confidence:     agg.confidence,
			Context:        strings.Join(agg.contexts, "; "),
			Category:       agg.category,
			Sentiment:      agg.sentiment,
			Relevance:      relevance(agg.confidence, agg.weight, agg.count),
		})
	}

	sort.SliceStable(mentions, func(i, j int) bool {
		if mentions[i].Relevance != mentions[j].Relevance {
			return mentions[i].Relevance > mentions[j].Relevance
		}
		if mentions[i].NormalizedName != mentions[j].NormalizedName {
			return mentions[i].NormalizedName < mentions[j].NormalizedName
		}
		return mentions[i].Type < mentions[j].Type
	})
	return mentions
}

// relevance combines confidence, in-document frequency, and positional
// weight into [0,1].
func relevance(confidence, weight float64, count int) float64 {
	if count > 5 {
		count = 5
	}
	v := confidence * weight * (1 + 0.15*float64(count-1))
	if v > 1 {
		v = 1
	}
	return v
}

// window returns the trimmed context snippet around a span.
func (e *Extractor) window(text string, start, end int) string {
	pad := e.contextRunes / 2
	lo := start
	for i := 0; i < pad && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < pad && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return strings.Join(strings.Fields(text[lo:hi]), " ")
}

// token is one word of a section with its byte span and casing.
type token struct {
	norm          string
	start         int
	end           int
	upper         bool
	sentenceStart bool
}

// tokenize splits text into word tokens, tracking byte offsets so surface
// forms and context windows slice the original text.
func tokenize(text string) []token {
	var tokens []token
	start := -1
	sentenceStart := true
	pendingStart := true
	for i, c := range text {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'' || c == '-' {
			if start < 0 {
				start = i
				pendingStart = sentenceStart
				sentenceStart = false
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, newToken(text, start, i, pendingStart))
			start = -1
		}
		if c == '.' || c == '!' || c == '?' || c == '\n' || c == ':' {
			sentenceStart = true
		}
	}
	if start >= 0 {
		tokens = append(tokens, newToken(text, start, len(text), pendingStart))
	}
	return tokens
}

func newToken(text string, start, end int, sentenceStart bool) token {
	word := text[start:end]
	first, _ := utf8.DecodeRuneInString(word)
	return token{
		norm:          strings.ToLower(strings.Trim(word, "'-")),
		start:         start,
		end:           end,
		upper:         unicode.IsUpper(first),
		sentenceStart: sentenceStart,
	}
}

func isStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`i we you they he she it the a an this that
		these those my our your his her its their and but or so if then when
		while after before here there what who how why where is was were be
		been being am are on in at by for with from to of as not no yes do did
		does have has had will would can could should may might must also just
		very really some many most more during between around through over
		under into out up down again once every each all any both few such own
		same than too now one two first last next day days trip trips visit
		visited`) {
		stopwords[w] = struct{}{}
	}
}
