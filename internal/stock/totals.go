package stock

// DayTotals rolls a day's reconciliation rows up for the dashboard and history.
type DayTotals struct {
	Products    int `json:"products"`
	Counted     int `json:"counted"`
	NotCounted  int `json:"not_counted"`
	Reconciled  int `json:"reconciled"`
	Surplus     int `json:"surplus"`
	Shortage    int `json:"shortage"`
	NetVariance int `json:"net_variance"`
	SoldPieces  int `json:"sold_pieces"`
	Flagged     int `json:"flagged"`
}

func Summarize(rows []Reconciliation) DayTotals {
	t := DayTotals{Products: len(rows)}
	for _, r := range rows {
		t.SoldPieces += r.SoldPieces
		if len(r.Flags) > 0 {
			t.Flagged++
		}
		switch r.Status {
		case StatusNotCounted:
			t.NotCounted++
			continue
		case StatusReconciled:
			t.Reconciled++
		case StatusSurplus:
			t.Surplus++
		case StatusShortage:
			t.Shortage++
		}
		t.Counted++
		t.NetVariance += *r.VarianceFromCount
	}
	return t
}
