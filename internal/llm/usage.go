package llm

import (
	"sort"

	"github.com/jeeace/jeeace/internal/store"
)

// UsageRow aggregates recorded requests under one key (a purpose or a
// model).
type UsageRow struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	totalLatency int64
}

// AvgLatencyMs is the mean request latency.
func (r UsageRow) AvgLatencyMs() int64 {
	if r.Calls == 0 {
		return 0
	}
	return r.totalLatency / int64(r.Calls)
}

// UsageSummary is the aggregate of a set of request events.
type UsageSummary struct {
	ByPurpose []UsageRow
	ByModel   []UsageRow

	// Cost sums the models with known pricing; Unpriced lists the rest.
	Cost     float64
	Unpriced []string
}

// SummarizeUsage groups events by purpose and by model, each sorted by key.
func SummarizeUsage(events []store.LLMRequestEvent) UsageSummary {
	purposes := make(map[string]*UsageRow)
	models := make(map[string]*UsageRow)
	for _, e := range events {
		purpose := e.Purpose
		if purpose == "" {
			purpose = "(none)"
		}
		addUsage(purposes, purpose, e)
		addUsage(models, e.Model, e)
	}

	u := UsageSummary{
		ByPurpose: sortedRows(purposes),
		ByModel:   sortedRows(models),
	}
	for _, row := range u.ByModel {
		price, ok := PriceOf(row.Key)
		if !ok {
			u.Unpriced = append(u.Unpriced, row.Key)
			continue
		}
		u.Cost += price.Cost(row.InputTokens, row.OutputTokens)
	}
	return u
}

func addUsage(rows map[string]*UsageRow, key string, e store.LLMRequestEvent) {
	row, ok := rows[key]
	if !ok {
		row = &UsageRow{Key: key}
		rows[key] = row
	}
	row.Calls++
	if !e.Success {
		row.Failures++
	}
	row.InputTokens += e.InputTokens
	row.OutputTokens += e.OutputTokens
	row.totalLatency += e.LatencyMs
}

func sortedRows(rows map[string]*UsageRow) []UsageRow {
	out := make([]UsageRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
