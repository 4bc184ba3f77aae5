package metrics

import (
	"sort"

	"trade-kpi-lab/internal/domain"
)

// ComputeShares breaks records down by dim with each label's share of the
// total amount, volume and count, largest amount first.
func ComputeShares(records []domain.TransactionRecord, dim domain.Dimension) []domain.Share {
	pos := make(map[string]int)
	var shares []domain.Share
	var totalAmount, totalVolume float64
	var totalCount int

	for i := range records {
		label := records[i].Label(dim)
		if label == "" {
			continue
		}
		j, ok := pos[label]
		if !ok {
			j = len(shares)
			pos[label] = j
			shares = append(shares, domain.Share{Label: label})
		}
		shares[j].Amount += records[i].ConfirmedAmount
		shares[j].Volume += records[i].VolumeOrZero()
		shares[j].Count++
		totalAmount += records[i].ConfirmedAmount
		totalVolume += records[i].VolumeOrZero()
		totalCount++
	}

	for i := range shares {
		s := &shares[i]
		s.AmountShare = percentOf(s.Amount, totalAmount)
		s.VolumeShare = percentOf(s.Volume, totalVolume)
		s.CountShare = percentOf(float64(s.Count), float64(totalCount))
	}
	sort.SliceStable(shares, func(a, b int) bool {
		return shares[a].Amount > shares[b].Amount
	})
	return shares
}

func percentOf(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return round1(part / total * 100)
}
