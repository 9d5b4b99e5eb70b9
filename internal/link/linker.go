// Package link resolves verified person mentions across documents. Mentions
// are first folded into per-document clusters, then compared pairwise within
// blocking buckets and merged through a three-band policy: auto-merge,
// review queue, or keep distinct. Splitting a wrongly merged identity is far
// more expensive than reviewing a borderline pair, so the bands err toward
// under-merging.
package link

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/confidence"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/model"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/provenance"
	"github.com/vpeopleonatank/PeopleInfoExtraction/internal/vntext"
)

// Cluster is all mentions of one person within a single document, folded
// into the identity features pairwise scoring compares.
type Cluster struct {
	DocID     string
	PassageID int

	// Key is the honorific-stripped, diacritic-folded blocking key of the
	// primary name.
	Key string

	// NameCounts maps primary surface spellings to mention counts; the
	// display-name vote runs over these.
	NameCounts map[string]int

	// AliasNames are alternate spellings seen in alias fields.
	AliasNames map[string]bool

	NationalID string
	Phones     []string
	BirthYear  *int
	Hometown   string

	Confidence float64
	Provenance []model.Provenance
}

// names returns every surface spelling in deterministic order.
func (c *Cluster) names() []string {
	out := make([]string, 0, len(c.NameCounts)+len(c.AliasNames))
	for name := range c.NameCounts {
		out = append(out, name)
	}
	for name := range c.AliasNames {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (c *Cluster) aliasKeys() map[string]bool {
	keys := make(map[string]bool, len(c.AliasNames))
	for name := range c.AliasNames {
		keys[vntext.NameKey(name)] = true
	}
	return keys
}

// Linker stages per-document clusters and resolves them in one atomic
// commit. Staging may happen while documents verify in parallel, but the
// reduction itself is single-threaded: Add and Commit must be called from
// one goroutine (the batch collector).
type Linker struct {
	cfg model.LinkingConfig
	agg *confidence.Aggregator

	staged  []*Cluster
	skipped int
}

// NewLinker creates a linker with the given merge policy.
func NewLinker(cfg model.LinkingConfig, agg *confidence.Aggregator) *Linker {
	return &Linker{cfg: cfg, agg: agg}
}

// ClusterDocument folds one document's verified people into clusters.
// Honorific-qualified repeat references ("ông Sử" after "Phạm Văn Sử") join
// the earlier mention's cluster through key matching; mentions with equal
// keys but different grounded national ids stay separate.
func (l *Linker) ClusterDocument(docID string, passageID int, people []model.VerifiedPerson) []*Cluster {
	var clusters []*Cluster

	for i := range people {
		v := &people[i]
		if !v.Grounded["name"] {
			continue
		}
		key := vntext.NameKey(v.Person.Name.Text)
		if key == "" {
			continue
		}

		target := l.matchCluster(clusters, v, key)
		if target == nil {
			target = &Cluster{
				DocID:      docID,
				PassageID:  passageID,
				Key:        key,
				NameCounts: make(map[string]int),
				AliasNames: make(map[string]bool),
				Confidence: v.EntityConfidence,
			}
			clusters = append(clusters, target)
		} else {
			target.Confidence = l.agg.Blend(target.Confidence, v.EntityConfidence)
		}

		l.foldMention(target, v)
	}
	return clusters
}

// matchCluster finds the existing cluster a mention corefers with: equal
// primary keys, or the mention's key naming one of the cluster's aliases,
// or vice versa. A grounded national id mismatch vetoes the match even on
// identical names.
func (l *Linker) matchCluster(clusters []*Cluster, v *model.VerifiedPerson, key string) *Cluster {
	id := v.GroundedNationalID()
	aliasKeys := make(map[string]bool)
	for i, alias := range v.Person.Aliases {
		if v.Grounded[model.FieldIndex("aliases", i)] {
			aliasKeys[vntext.NameKey(alias.Text)] = true
		}
	}

	for _, c := range clusters {
		if id != "" && c.NationalID != "" && id != c.NationalID {
			continue
		}
		if c.Key == key || c.aliasKeys()[key] || aliasKeys[c.Key] {
			return c
		}
	}
	return nil
}

func (l *Linker) foldMention(c *Cluster, v *model.VerifiedPerson) {
	c.NameCounts[v.Person.Name.Text]++
	for i, alias := range v.Person.Aliases {
		if v.Grounded[model.FieldIndex("aliases", i)] {
			c.AliasNames[alias.Text] = true
		}
	}
	if id := v.GroundedNationalID(); id != "" && c.NationalID == "" {
		c.NationalID = id
	}
	for _, phone := range v.GroundedPhones() {
		if !containsString(c.Phones, phone) {
			c.Phones = append(c.Phones, phone)
		}
	}
	if c.BirthYear == nil && v.DerivedBirthYear != nil {
		year := *v.DerivedBirthYear
		c.BirthYear = &year
	}
	if c.Hometown == "" && v.Grounded["birth_place"] && v.Person.BirthPlace != nil {
		c.Hometown = v.Person.BirthPlace.Text
	}
	c.Provenance = append(c.Provenance, v.Provenance...)
}

// Add stages clusters for the next commit. Clusters below the entity
// confidence gate are excluded from cross-document resolution entirely; a
// weakly identified mention must not pull unrelated identities together.
func (l *Linker) Add(clusters ...*Cluster) {
	for _, c := range clusters {
		if c.Confidence < l.cfg.MinEntityConfidence {
			l.skipped++
			zap.L().Debug("link: cluster below confidence gate",
				zap.String("doc_id", c.DocID),
				zap.String("key", c.Key),
				zap.Float64("confidence", c.Confidence))
			continue
		}
		l.staged = append(l.staged, c)
	}
}

// Commit resolves all staged clusters and returns canonical people plus the
// review queue. The staged set is consumed only on success; a cancelled
// commit leaves it intact for retry. The whole reduction is deterministic:
// staging order, document order, and pair evaluation order never change the
// outcome.
func (l *Linker) Commit(ctx context.Context) (*model.LinkResult, error) {
	clusters := append([]*Cluster(nil), l.staged...)
	sort.Slice(clusters, func(i, j int) bool {
		a, b := clusters[i], clusters[j]
		if a.DocID != b.DocID {
			return a.DocID < b.DocID
		}
		if a.PassageID != b.PassageID {
			return a.PassageID < b.PassageID
		}
		return a.Key < b.Key
	})

	pairs := blockPairs(clusters)
	uf := newUnionFind(len(clusters))

	type reviewPair struct {
		left, right int
		score       float64
		breakdown   map[string]float64
	}
	var reviews []reviewPair

	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, breakdown, conflict := scorePair(clusters[p[0]], clusters[p[1]])
		if conflict {
			score = l.cfg.ConflictFloor
		}
		switch {
		case score >= l.cfg.AutoMergeThreshold && !conflict:
			uf.union(p[0], p[1])
		case score >= l.cfg.ReviewThreshold:
			reviews = append(reviews, reviewPair{p[0], p[1], score, breakdown})
		}
	}

	canonical, uidByRoot, nameByRoot := l.canonicalize(clusters, uf)

	// Review pairs whose sides ended up in one set anyway (via a transitive
	// auto-merge) are moot; the rest dedupe to one entry per root pair,
	// keeping the strongest score.
	best := make(map[[2]int]reviewPair)
	for _, r := range reviews {
		ra, rb := uf.find(r.left), uf.find(r.right)
		if ra == rb {
			continue
		}
		if ra > rb {
			ra, rb = rb, ra
		}
		key := [2]int{ra, rb}
		if prev, ok := best[key]; !ok || r.score > prev.score {
			best[key] = r
		}
	}

	pending := make([]model.PendingMerge, 0, len(best))
	for key, r := range best {
		pending = append(pending, model.PendingMerge{
			LeftUID:   uidByRoot[key[0]],
			RightUID:  uidByRoot[key[1]],
			LeftName:  nameByRoot[key[0]],
			RightName: nameByRoot[key[1]],
			Score:     r.score,
			Breakdown: r.breakdown,
		})
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Score != pending[j].Score {
			return pending[i].Score > pending[j].Score
		}
		if pending[i].LeftUID != pending[j].LeftUID {
			return pending[i].LeftUID < pending[j].LeftUID
		}
		return pending[i].RightUID < pending[j].RightUID
	})

	zap.L().Info("link: batch committed",
		zap.Int("clusters", len(clusters)),
		zap.Int("canonical", len(canonical)),
		zap.Int("pending", len(pending)),
		zap.Int("gated", l.skipped))

	l.staged = nil
	l.skipped = 0
	return &model.LinkResult{Canonical: canonical, Pending: pending}, nil
}

// blockPairs yields candidate pair indices from blocking buckets: primary
// name key, plus a secondary national-id bucket so alias spellings with a
// shared id still get compared. Pairs are deduplicated and sorted.
func blockPairs(clusters []*Cluster) [][2]int {
	buckets := make(map[string][]int)
	for i, c := range clusters {
		buckets["k:"+c.Key] = append(buckets["k:"+c.Key], i)
		if c.NationalID != "" {
			buckets["id:"+c.NationalID] = append(buckets["id:"+c.NationalID], i)
		}
		if c.BirthYear != nil && c.Hometown != "" {
			buckets["bh:"+vntext.Fold(c.Hometown)] = append(buckets["bh:"+vntext.Fold(c.Hometown)], i)
		}
	}

	seen := make(map[[2]int]bool)
	var pairs [][2]int
	for _, indices := range buckets {
		for x := 0; x < len(indices); x++ {
			for y := x + 1; y < len(indices); y++ {
				a, b := indices[x], indices[y]
				if a > b {
					a, b = b, a
				}
				key := [2]int{a, b}
				if seen[key] {
					continue
				}
				seen[key] = true
				pairs = append(pairs, key)
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}

// canonicalize builds one CanonicalPerson per merge set. The display name
// wins by mention-count majority, ties broken by earliest document order,
// then lexicographically. Confidence blends across member clusters in
// document order so the result is order-independent given the sort.
func (l *Linker) canonicalize(clusters []*Cluster, uf *unionFind) ([]model.CanonicalPerson, map[int]string, map[int]string) {
	sets := make(map[int][]int)
	var roots []int
	for i := range clusters {
		r := uf.find(i)
		if _, ok := sets[r]; !ok {
			roots = append(roots, r)
		}
		sets[r] = append(sets[r], i)
	}
	sort.Ints(roots)

	canonical := make([]model.CanonicalPerson, 0, len(roots))
	uidByRoot := make(map[int]string, len(roots))
	nameByRoot := make(map[int]string, len(roots))

	for _, root := range roots {
		members := sets[root] // ascending, i.e. document order

		display := voteDisplayName(clusters, members)
		person := model.CanonicalPerson{DisplayName: display}

		docSeen := make(map[string]bool)
		aliasSet := make(map[string]bool)
		first := true
		for _, idx := range members {
			c := clusters[idx]
			if first {
				person.Confidence = c.Confidence
				first = false
			} else {
				person.Confidence = l.agg.Blend(person.Confidence, c.Confidence)
			}
			if person.NationalID == "" {
				person.NationalID = c.NationalID
			}
			if person.BirthYear == nil && c.BirthYear != nil {
				year := *c.BirthYear
				person.BirthYear = &year
			}
			if person.Hometown == "" {
				person.Hometown = c.Hometown
			}
			for _, name := range c.names() {
				if name != display {
					aliasSet[name] = true
				}
			}
			if !docSeen[c.DocID] {
				docSeen[c.DocID] = true
				person.MemberDocIDs = append(person.MemberDocIDs, c.DocID)
			}
			person.Provenance = append(person.Provenance, c.Provenance...)
		}
		sort.Strings(person.MemberDocIDs)
		for alias := range aliasSet {
			person.Aliases = append(person.Aliases, alias)
		}
		sort.Strings(person.Aliases)

		person.UID = provenance.PersonKey(vntext.NameKey(display), person.NationalID, person.BirthYear)

		canonical = append(canonical, person)
		uidByRoot[root] = person.UID
		nameByRoot[root] = display
	}
	return canonical, uidByRoot, nameByRoot
}

// voteDisplayName picks the most frequent primary spelling across member
// clusters.
func voteDisplayName(clusters []*Cluster, members []int) string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for _, idx := range members {
		for _, name := range sortedNames(clusters[idx].NameCounts) {
			counts[name] += clusters[idx].NameCounts[name]
			if _, ok := firstSeen[name]; !ok {
				firstSeen[name] = order
			}
			order++
		}
	}

	var display string
	for name, n := range counts {
		if display == "" {
			display = name
			continue
		}
		switch {
		case n > counts[display]:
			display = name
		case n == counts[display]:
			if firstSeen[name] < firstSeen[display] ||
				(firstSeen[name] == firstSeen[display] && name < display) {
				display = name
			}
		}
	}
	return display
}

func sortedNames(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
