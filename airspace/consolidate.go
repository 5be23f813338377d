// airspace/consolidate.go
// Copyright(c) 2025 openair contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package airspace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mmp/openair/log"
	"github.com/mmp/openair/util"

	"github.com/brunoga/deep"
	"github.com/iancoleman/orderedmap"
)

// MergedIDMaxLength bounds the synthetic id of a merged record; the
// concatenation of constituent ids is truncated past this.
const MergedIDMaxLength = 100

// Consolidate collapses near-duplicate records--typically produced when
// multiple overlapping source files describe the same real airspace--into
// single merged records. Records are bucketed by exact (type, floor,
// ceiling) and only records within a bucket can merge; within each bucket
// a transitive closure of pairwise Match calls forms clusters. Singleton
// clusters pass through unchanged; multi-member clusters produce one
// brand-new merged record, never mutating the inputs.
//
// The clustering is O(n^2) per bucket, which is the dominant cost of the
// whole pipeline on large datasets.
func Consolidate(recs []Record, lg *log.Logger) []Record {
	if len(recs) == 0 {
		return nil
	}

	type bucketKey struct {
		airspaceType string
		floor        int
		ceiling      int
	}

	ptrs := make([]*Record, len(recs))
	for i := range recs {
		ptrs[i] = &recs[i]
	}

	buckets := make(map[bucketKey][]*Record)
	for _, r := range ptrs {
		alt := r.AltitudeBand()
		k := bucketKey{airspaceType: r.Type, floor: alt.Floor, ceiling: alt.Ceiling}
		buckets[k] = append(buckets[k], r)
	}

	var clusters [][]*Record
	for _, bucket := range buckets {
		clusters = append(clusters, clusterMatching(bucket)...)
	}

	out := emitClusters(ptrs, clusters, mergeCluster)
	if merged := len(recs) - len(out); merged > 0 {
		lg.Infof("consolidated %d airspace records into %d", len(recs), len(out))
	}
	return out
}

// clusterMatching partitions the bucket into connected components under
// Match: starting from each unprocessed record, it repeatedly scans the
// remaining records and adds any that match any current cluster member,
// looping until a full scan adds nothing new.
func clusterMatching(bucket []*Record) [][]*Record {
	processed := make([]bool, len(bucket))
	var clusters [][]*Record

	for i := range bucket {
		if processed[i] {
			continue
		}
		cluster := []*Record{bucket[i]}
		processed[i] = true

		for added := true; added; {
			added = false
			for j := range bucket {
				if processed[j] {
					continue
				}
				if util.AnySlice(cluster, func(m *Record) bool { return Match(m, bucket[j]) }) {
					cluster = append(cluster, bucket[j])
					processed[j] = true
					added = true
				}
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// emitClusters produces the output record set in input order: each
// cluster is emitted at the position of its first member, merged via
// mergeFn when it has multiple members.
func emitClusters(recs []*Record, clusters [][]*Record, mergeFn func([]*Record) Record) []Record {
	clusterIndex := make(map[*Record]int)
	for i, cl := range clusters {
		for _, r := range cl {
			clusterIndex[r] = i
		}
	}

	emitted := make([]bool, len(clusters))
	var out []Record
	for _, r := range recs {
		ci, ok := clusterIndex[r]
		if !ok {
			out = append(out, *r)
			continue
		}
		if emitted[ci] {
			continue
		}
		emitted[ci] = true

		if cl := clusters[ci]; len(cl) == 1 {
			out = append(out, *cl[0])
		} else {
			out = append(out, mergeFn(cl))
		}
	}
	return out
}

// mergeCluster synthesizes a single record from a multi-member cluster.
// All fields other than id, names, message, and bounds are copied from
// the cluster's first member.
func mergeCluster(cluster []*Record) Record {
	merged := deep.MustCopy(*cluster[0])

	merged.ID = mergedID(cluster)
	names := util.DedupStrings(util.MapSlice(cluster, func(r *Record) string { return r.NotamNumber }))
	merged.NotamNumber = strings.Join(names, ", ")
	locations := util.DedupStrings(util.MapSlice(cluster, func(r *Record) string { return r.Location }))
	merged.Location = strings.Join(locations, ", ")
	merged.Message = fmt.Sprintf("Merged %d overlapping airspace definitions", len(cluster))
	merged.ComputeBounds()

	return merged
}

func mergedID(cluster []*Record) string {
	id := "merged-" + strings.Join(util.MapSlice(cluster, func(r *Record) string { return r.ID }), "-")
	if len(id) > MergedIDMaxLength {
		id = id[:MergedIDMaxLength]
	}
	return id
}

///////////////////////////////////////////////////////////////////////////
// Route consolidation

// RouteCacheTTL is how long a cached route-consolidation result remains
// valid; past this the expensive matching is recomputed even when the
// candidate set is unchanged.
const RouteCacheTTL = 7 * 24 * time.Hour

// routeCacheKey is the Store key under which the route-consolidation
// replay cache is persisted.
const routeCacheKey = "route-consolidation"

// reRouteID matches RNAV/airway route identifiers like T601, Q123, V45,
// J42.
var reRouteID = regexp.MustCompile(`\b([TQVJ][0-9]{1,3})\b`)

// reRouteName recognizes names that describe RNAV/airway route airspace.
var reRouteName = regexp.MustCompile(`\bRNAV\b|\bFixed\b.*\bRoute\b|\b[TQVJ][0-9]{1,3}\b`)

// routeCacheEntry is the persisted replay state: which record ids formed
// each multi-member cluster when the candidate set hashed to DataHash.
type routeCacheEntry struct {
	DataHash  string     `msgpack:"dataHash"`
	Mappings  [][]string `msgpack:"mappings"`
	Timestamp time.Time  `msgpack:"timestamp"`
}

// IsRouteAirspace reports whether the record's name identifies RNAV/
// airway route airspace, making it a candidate for route consolidation.
func IsRouteAirspace(r *Record) bool {
	return reRouteName.MatchString(r.NotamNumber) || reRouteName.MatchString(r.Location)
}

// routeBaseName strips route identifiers from a name so that "T601 Fixed
// RNAV Route" and "T602 Fixed RNAV Route" group together.
func routeBaseName(name string) string {
	return strings.Join(strings.Fields(reRouteID.ReplaceAllString(name, "")), " ")
}

// ConsolidateRoutes merges named RNAV/airway route airspaces that were
// split into many short segments across source files. Candidates are
// grouped by (type, altitude, base name with route ids stripped) before
// the same geometry-matching clustering as Consolidate runs within each
// group.
//
// The pass is cacheable: a content hash of the candidate set is computed
// and prior cluster mappings keyed by that hash are replayed from store
// instead of recomputing the O(n^2) matching. The cache invalidates on
// hash mismatch or after RouteCacheTTL. A nil store disables caching;
// store failures degrade to a recompute (reads) or are logged and ignored
// (writes), never surfaced as errors.
func ConsolidateRoutes(recs []Record, store util.Store, lg *log.Logger) []Record {
	if len(recs) == 0 {
		return nil
	}

	ptrs := make([]*Record, len(recs))
	for i := range recs {
		ptrs[i] = &recs[i]
	}

	var candidates []*Record
	for _, r := range ptrs {
		if IsRouteAirspace(r) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		out := make([]Record, len(recs))
		copy(out, recs)
		return out
	}

	hash := contentHash(candidates)

	if clusters, ok := replayRouteClusters(candidates, hash, store, lg); ok {
		return emitClusters(ptrs, clusters, mergeRouteCluster)
	}

	type groupKey struct {
		airspaceType string
		floor        int
		ceiling      int
		baseName     string
	}
	groups := make(map[groupKey][]*Record)
	for _, r := range candidates {
		alt := r.AltitudeBand()
		k := groupKey{
			airspaceType: r.Type,
			floor:        alt.Floor,
			ceiling:      alt.Ceiling,
			baseName:     routeBaseName(r.NotamNumber),
		}
		groups[k] = append(groups[k], r)
	}

	var clusters [][]*Record
	for _, group := range groups {
		clusters = append(clusters, clusterMatching(group)...)
	}

	if store != nil {
		entry := routeCacheEntry{DataHash: hash, Timestamp: time.Now()}
		for _, cl := range clusters {
			if len(cl) > 1 {
				entry.Mappings = append(entry.Mappings,
					util.MapSlice(cl, func(r *Record) string { return r.ID }))
			}
		}
		if err := store.Put(routeCacheKey, entry); err != nil {
			lg.Warnf("unable to persist route consolidation cache: %v", err)
		}
	}

	return emitClusters(ptrs, clusters, mergeRouteCluster)
}

// replayRouteClusters reconstitutes clusters from a cached mapping, if a
// valid one exists for the given content hash.
func replayRouteClusters(candidates []*Record, hash string, store util.Store, lg *log.Logger) ([][]*Record, bool) {
	if store == nil {
		return nil, false
	}

	var entry routeCacheEntry
	if _, err := store.Get(routeCacheKey, &entry); err != nil {
		if err != util.ErrNotFound {
			lg.Warnf("route consolidation cache read failed: %v", err)
		}
		return nil, false
	}
	if entry.DataHash != hash || time.Since(entry.Timestamp) > RouteCacheTTL {
		return nil, false
	}

	byID := make(map[string]*Record)
	for _, r := range candidates {
		byID[r.ID] = r
	}

	var clusters [][]*Record
	for _, ids := range entry.Mappings {
		var cl []*Record
		for _, id := range ids {
			r, ok := byID[id]
			if !ok {
				// The hash matched but an id is missing; don't trust
				// the cache.
				return nil, false
			}
			cl = append(cl, r)
		}
		if len(cl) > 1 {
			clusters = append(clusters, cl)
		}
	}

	lg.Debugf("replayed %d route consolidation clusters from cache", len(clusters))
	return clusters, true
}

// mergeRouteCluster merges a cluster of route segments, naming the result
// from the deduplicated route identifiers plus the shared base name:
// "T601, T602 Fixed RNAV Route".
func mergeRouteCluster(cluster []*Record) Record {
	merged := mergeCluster(cluster)

	var routeIDs []string
	for _, r := range cluster {
		routeIDs = append(routeIDs, reRouteID.FindAllString(r.NotamNumber, -1)...)
	}
	routeIDs = util.DedupStrings(routeIDs)
	if len(routeIDs) > 0 {
		name := strings.Join(routeIDs, ", ")
		if base := routeBaseName(cluster[0].NotamNumber); base != "" {
			name += " " + base
		}
		merged.NotamNumber = name
		merged.Location = name
	}
	merged.Message = fmt.Sprintf("Merged %d route segments", len(cluster))

	return merged
}

// contentHash computes a stable hash of the candidate set: an ordered
// JSON document of each record's identity-relevant fields, digested with
// SHA-256. Two candidate sets with the same hash consolidate identically.
func contentHash(recs []*Record) string {
	items := make([]*orderedmap.OrderedMap, 0, len(recs))
	for _, r := range recs {
		o := orderedmap.New()
		o.Set("id", r.ID)
		o.Set("type", r.Type)
		o.Set("notamNumber", r.NotamNumber)
		alt := r.AltitudeBand()
		o.Set("floor", alt.Floor)
		o.Set("ceiling", alt.Ceiling)
		o.Set("polygonLength", len(r.Polygon))
		o.Set("hasRadius", r.RadiusNM > 0)
		items = append(items, o)
	}

	b, _ := json.Marshal(items)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
