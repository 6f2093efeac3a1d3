package ingest

import (
	"sort"
	"strings"

	"github.com/cpacc-prep/studybank/internal/question"
	"github.com/cpacc-prep/studybank/internal/topics"
)

// Bucket is every record sharing one topic, in source order.
type Bucket struct {
	TopicID string
	Records []question.Record
}

// Code is the upper-case sub-category code derived from the topic slug.
func (b Bucket) Code() string { return topics.CodeOf(b.TopicID) }

// Name is the lower-case code used for file and variable names.
func (b Bucket) Name() string { return strings.ToLower(b.Code()) }

// Partition groups rows by topic, keeping source order inside each bucket,
// and returns the buckets sorted by topic slug.
func Partition(rows []Row) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket
	for _, r := range rows {
		i, ok := index[r.TopicID]
		if !ok {
			i = len(buckets)
			index[r.TopicID] = i
			buckets = append(buckets, Bucket{TopicID: r.TopicID})
		}
		buckets[i].Records = append(buckets[i].Records, r.Record())
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].TopicID < buckets[j].TopicID
	})
	return buckets
}

// Total returns the number of records across buckets.
func Total(buckets []Bucket) int {
	n := 0
	for _, b := range buckets {
		n += len(b.Records)
	}
	return n
}

// Counts maps each bucket's upper-case code to its record count.
func Counts(buckets []Bucket) map[string]int {
	out := make(map[string]int, len(buckets))
	for _, b := range buckets {
		out[b.Code()] += len(b.Records)
	}
	return out
}
