package metrics

import (
	"sort"

	"trade-kpi-lab/internal/domain"
)

// DefaultMoversLimit is the number of increases and decreases reported.
const DefaultMoversLimit = 10

// ComputeMovers compares each label's amount in the two latest buckets.
// Labels missing from a bucket count as zero there. Increases are labels
// with a positive change, largest first; decreases are negative changes,
// most negative first. Fewer than two buckets yields empty lists.
func ComputeMovers(records []domain.TransactionRecord, bucket domain.TimeBucket, dim domain.Dimension, limit int) domain.Movers {
	if limit <= 0 {
		limit = DefaultMoversLimit
	}

	var out domain.Movers
	buckets := bucketLabels(records, bucket)
	if len(buckets) < 2 {
		if len(buckets) == 1 {
			out.CurrentBucket = buckets[0]
		}
		return out
	}
	out.PreviousBucket = buckets[len(buckets)-2]
	out.CurrentBucket = buckets[len(buckets)-1]

	pos := make(map[string]int)
	var movers []domain.Mover
	for i := range records {
		b := records[i].Bucket(bucket)
		if b != out.PreviousBucket && b != out.CurrentBucket {
			continue
		}
		label := records[i].Label(dim)
		if label == "" {
			continue
		}
		j, ok := pos[label]
		if !ok {
			j = len(movers)
			pos[label] = j
			movers = append(movers, domain.Mover{Label: label})
		}
		if b == out.CurrentBucket {
			movers[j].Current += records[i].ConfirmedAmount
		} else {
			movers[j].Previous += records[i].ConfirmedAmount
		}
	}

	for i := range movers {
		m := &movers[i]
		m.Change = m.Current - m.Previous
		if m.Previous != 0 {
			m.ChangeRate = round1(m.Change / m.Previous * 100)
		}
		switch {
		case m.Change > 0:
			out.Increases = append(out.Increases, *m)
		case m.Change < 0:
			out.Decreases = append(out.Decreases, *m)
		}
	}

	sort.SliceStable(out.Increases, func(a, b int) bool {
		return out.Increases[a].Change > out.Increases[b].Change
	})
	sort.SliceStable(out.Decreases, func(a, b int) bool {
		return out.Decreases[a].Change < out.Decreases[b].Change
	})
	if len(out.Increases) > limit {
		out.Increases = out.Increases[:limit]
	}
	if len(out.Decreases) > limit {
		out.Decreases = out.Decreases[:limit]
	}
	return out
}

// bucketLabels returns the distinct non-empty bucket labels, ascending.
func bucketLabels(records []domain.TransactionRecord, bucket domain.TimeBucket) []string {
	set := make(map[string]struct{})
	for i := range records {
		if b := records[i].Bucket(bucket); b != "" {
			set[b] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for b := range set {
		out = append(out, b)
	}
	sort.Strings(out)
	return out
}
