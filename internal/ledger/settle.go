package ledger

import "container/heap"

// Debt is a directed obligation derived from one unsettled share: the
// share's participant owes the split's payer the remaining amount.
type Debt struct {
	Ower   string
	Owee   string
	Amount float64
}

// Instruction is one proposed payment produced by the settlement minimizer.
type Instruction struct {
	From   string
	To     string
	Amount float64
}

// NetBalances folds a list of raw debts into one net balance per
// participant: positive means the participant is owed money, negative means
// they owe. The balances of any debt list always sum to zero.
func NetBalances(debts []Debt) map[string]float64 {
	paise := make(map[string]int64)
	for _, d := range debts {
		p := toPaise(d.Amount)
		paise[d.Ower] -= p
		paise[d.Owee] += p
	}
	balances := make(map[string]float64, len(paise))
	for user, p := range paise {
		balances[user] = toRupees(p)
	}
	return balances
}

// MinimizeSettlements reduces net balances to payment instructions using
// greedy largest-magnitude matching: repeatedly pair the largest debtor
// with the largest creditor and settle the smaller of the two amounts.
//
// This is the standard debt-simplification heuristic, not a proven
// minimum-cardinality solver; the contract is the N-1 upper bound on
// instruction count, and that applying every instruction zeroes all
// balances. Ties in magnitude break by user ID ascending so the output is
// reproducible.
func MinimizeSettlements(balances map[string]float64) []Instruction {
	debtors := &balanceHeap{}
	creditors := &balanceHeap{}
	for user, bal := range balances {
		paise := toPaise(bal)
		switch {
		case paise > 0:
			heap.Push(creditors, balanceEntry{user: user, paise: paise})
		case paise < 0:
			heap.Push(debtors, balanceEntry{user: user, paise: -paise})
		}
	}

	var instructions []Instruction
	for debtors.Len() > 0 && creditors.Len() > 0 {
		debtor := heap.Pop(debtors).(balanceEntry)
		creditor := heap.Pop(creditors).(balanceEntry)

		amount := min(debtor.paise, creditor.paise)
		instructions = append(instructions, Instruction{
			From:   debtor.user,
			To:     creditor.user,
			Amount: toRupees(amount),
		})

		if remaining := debtor.paise - amount; remaining > 0 {
			heap.Push(debtors, balanceEntry{user: debtor.user, paise: remaining})
		}
		if remaining := creditor.paise - amount; remaining > 0 {
			heap.Push(creditors, balanceEntry{user: creditor.user, paise: remaining})
		}
	}
	return instructions
}

// balanceEntry is one participant's outstanding magnitude in paise.
type balanceEntry struct {
	user  string
	paise int64
}

// balanceHeap is a max-heap of balance magnitudes, ties broken by user ID
// ascending.
type balanceHeap []balanceEntry

func (h balanceHeap) Len() int { return len(h) }

func (h balanceHeap) Less(i, j int) bool {
	if h[i].paise != h[j].paise {
		return h[i].paise > h[j].paise
	}
	return h[i].user < h[j].user
}

func (h balanceHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *balanceHeap) Push(x any) { *h = append(*h, x.(balanceEntry)) }

func (h *balanceHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}
