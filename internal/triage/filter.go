package triage

import (
	"fmt"
	"strings"

	"github.com/crownline/pageant-manager/internal/entity"
)

// Bucket is a mutually exclusive filter view over the enquiry set. A record
// is shown under exactly the bucket whose predicate its current flags match;
// buckets never combine.
type Bucket string

const (
	BucketAll      Bucket = "all"
	BucketUnread   Bucket = "unread"
	BucketRead     Bucket = "read"
	BucketArchived Bucket = "archived"
	BucketDeleted  Bucket = "deleted"
)

var validBuckets = map[Bucket]bool{
	BucketAll:      true,
	BucketUnread:   true,
	BucketRead:     true,
	BucketArchived: true,
	BucketDeleted:  true,
}

func ParseBucket(s string) (Bucket, error) {
	if s == "" {
		return BucketAll, nil
	}
	b := Bucket(strings.ToLower(s))
	if !validBuckets[b] {
		return "", fmt.Errorf("unknown bucket: %s", s)
	}
	return b, nil
}

// matchesBucket implements the mutually exclusive membership test. Outside
// of "all", every record belongs to exactly one bucket: deleted wins over
// archived, archived wins over the read/unread split.
func matchesBucket(e *entity.Enquiry, b Bucket) bool {
	switch b {
	case BucketAll:
		return true
	case BucketUnread:
		return !e.Read.Bool() && !e.Archived.Bool() && !e.Deleted.Bool()
	case BucketRead:
		return e.Read.Bool() && !e.Archived.Bool() && !e.Deleted.Bool()
	case BucketArchived:
		return e.Archived.Bool() && !e.Deleted.Bool()
	case BucketDeleted:
		return e.Deleted.Bool()
	}
	return false
}

func matchesQuery(e *entity.Enquiry, query string) bool {
	if query == "" {
		return true
	}
	query = strings.ToLower(query)
	for _, field := range []string{e.Name, e.Email, e.Subject, e.Message, string(e.InquiryType)} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Filter derives the visible subset from the full record set: bucket
// predicate AND free-text match, preserving the incoming newest-first order.
// It performs no I/O.
func Filter(records []entity.Enquiry, bucket Bucket, query string) []entity.Enquiry {
	visible := make([]entity.Enquiry, 0, len(records))
	for i := range records {
		if matchesBucket(&records[i], bucket) && matchesQuery(&records[i], query) {
			visible = append(visible, records[i])
		}
	}
	return visible
}

// Counts holds the per-bucket badge counters, always computed over the full
// set rather than the filtered one.
type Counts struct {
	All      int `json:"all"`
	Unread   int `json:"unread"`
	Read     int `json:"read"`
	Archived int `json:"archived"`
	Deleted  int `json:"deleted"`
}

func CountBuckets(records []entity.Enquiry) Counts {
	var c Counts
	for i := range records {
		c.All++
		switch {
		case records[i].Deleted.Bool():
			c.Deleted++
		case records[i].Archived.Bool():
			c.Archived++
		case records[i].Read.Bool():
			c.Read++
		default:
			c.Unread++
		}
	}
	return c
}
