package ledger

import "sort"

// PairBalance is one counterparty line in a debt summary.
type PairBalance struct {
	UserID string
	Amount float64
}

// Summary is one user's net debt position across all unsettled shares in
// scope, plus the settlement plan for everyone in that scope.
type Summary struct {
	OwesMe        []PairBalance
	IOwe          []PairBalance
	TotalOwedToMe float64
	TotalIOwe     float64
	NetBalance    float64
	Settlements   []Instruction
}

// BuildSummary aggregates raw debts into a summary for userID. Mutual debts
// between a pair are netted first, so at most one direction survives per
// counterparty: A owing B 400 while B owes A 150 reports a single 250 debt
// from A to B.
func BuildSummary(userID string, debts []Debt) *Summary {
	// Net each pair's mutual debts, in paise. Keyed by the counterparty;
	// positive means the counterparty owes userID.
	pair := make(map[string]int64)
	for _, d := range debts {
		paise := toPaise(d.Amount)
		switch {
		case d.Owee == userID && d.Ower != userID:
			pair[d.Ower] += paise
		case d.Ower == userID && d.Owee != userID:
			pair[d.Owee] -= paise
		}
	}

	s := &Summary{}
	var totalOwed, totalOwe int64
	for user, paise := range pair {
		switch {
		case paise > 0:
			s.OwesMe = append(s.OwesMe, PairBalance{UserID: user, Amount: toRupees(paise)})
			totalOwed += paise
		case paise < 0:
			s.IOwe = append(s.IOwe, PairBalance{UserID: user, Amount: toRupees(-paise)})
			totalOwe -= paise
		}
	}
	sortPairs(s.OwesMe)
	sortPairs(s.IOwe)

	s.TotalOwedToMe = toRupees(totalOwed)
	s.TotalIOwe = toRupees(totalOwe)
	s.NetBalance = toRupees(totalOwed - totalOwe)
	s.Settlements = MinimizeSettlements(NetBalances(debts))
	return s
}

func sortPairs(pairs []PairBalance) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Amount != pairs[j].Amount {
			return pairs[i].Amount > pairs[j].Amount
		}
		return pairs[i].UserID < pairs[j].UserID
	})
}
